package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

const writeWait = 10 * time.Second

type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// ConnectionManager tracks the live socket of every player key.
type ConnectionManager struct {
	connections map[string]*connection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{connections: make(map[string]*connection)}
}

// AddConnection registers conn for key, closing any older socket so a
// player keeps a single live tab.
func (cm *ConnectionManager) AddConnection(key string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if old, exists := cm.connections[key]; exists {
		old.conn.Close()
	}
	cm.connections[key] = &connection{conn: conn}
}

// RemoveConnectionIfMatching leaves a newer socket for the same key alone.
func (cm *ConnectionManager) RemoveConnectionIfMatching(key string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[key]; exists && current.conn == conn {
		current.conn.Close()
		delete(cm.connections, key)
	}
}

// SendMessage writes message to key's socket. A missing socket is not an
// error.
func (cm *ConnectionManager) SendMessage(key string, message domain.ServerMessage) error {
	cm.mu.RLock()
	c, exists := cm.connections[key]
	cm.mu.RUnlock()
	if !exists {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

// BroadcastMessage sends message to every connected player.
func (cm *ConnectionManager) BroadcastMessage(message domain.ServerMessage) {
	cm.mu.RLock()
	keys := make([]string, 0, len(cm.connections))
	for key := range cm.connections {
		keys = append(keys, key)
	}
	cm.mu.RUnlock()

	for _, key := range keys {
		go cm.SendMessage(key, message)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}
