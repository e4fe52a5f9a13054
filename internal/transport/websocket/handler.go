package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/stats"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/http/middleware"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	MessageState              = "state"
	MessageGameOver           = "game_over"
	MessageError              = "error"
	MessageLeaderboardRefresh = "leaderboard_refresh"
)

// MatchFactory builds the match for a player. observer must be passed on
// as the match's snapshot observer.
type MatchFactory func(id stats.Identity, observer func(domain.Snapshot)) *game.Match

type Handler struct {
	ConnManager *ConnectionManager
	Sessions    *game.SessionManager
	NewMatch    MatchFactory
	Upgrader    websocket.Upgrader
	log         *zap.SugaredLogger
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, newMatch MatchFactory, allowedOrigins []string, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		ConnManager: cm,
		Sessions:    sm,
		NewMatch:    newMatch,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logger,
	}
}

// HandleWebSocket upgrades an identified request and serves its match.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("[WS] upgrade failed", "error", err)
		return
	}
	h.handleConnection(conn, id)
}

// observer pushes every snapshot of key's match to its socket.
func (h *Handler) observer(key string) func(domain.Snapshot) {
	return func(s domain.Snapshot) {
		msgType := MessageState
		if s.Phase == domain.PhaseTerminal {
			msgType = MessageGameOver
		}
		if err := h.ConnManager.SendMessage(key, domain.ServerMessage{Type: msgType, Snapshot: &s}); err != nil {
			h.log.Debugw("[WS] snapshot not delivered", "player", key, "error", err)
		}
	}
}

func (h *Handler) handleConnection(conn *websocket.Conn, id stats.Identity) {
	key := id.Key()
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	h.ConnManager.AddConnection(key, conn)
	h.log.Infow("[WS] connected", "player", key)

	defer func() {
		close(done)
		h.ConnManager.RemoveConnectionIfMatching(key, conn)
		h.log.Infow("[WS] disconnected", "player", key)
	}()

	snap := h.matchFor(id).Snapshot()
	h.ConnManager.SendMessage(key, domain.ServerMessage{Type: MessageState, Snapshot: &snap})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Infow("[WS] unexpected close", "player", key, "error", err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(key, "Invalid message format")
			continue
		}
		h.processMessage(id, msg)
	}
}

// matchFor looks the match up on every request, so a match dropped by the
// idle cleanup is rebuilt transparently.
func (h *Handler) matchFor(id stats.Identity) *game.Match {
	key := id.Key()
	return h.Sessions.GetOrCreate(key, func() *game.Match {
		return h.NewMatch(id, h.observer(key))
	})
}

// processMessage routes one client request. Successful requests answer
// through the match observer.
func (h *Handler) processMessage(id stats.Identity, msg domain.ClientMessage) {
	ctx := context.Background()
	key := id.Key()
	match := h.matchFor(id)

	var err error
	switch msg.Type {
	case "start":
		_, err = match.Start(ctx, msg.Tier)
	case "move":
		if msg.Index == nil {
			err = domain.ErrMissingIndex
			break
		}
		_, err = match.PlayerMove(ctx, *msg.Index)
	case "menu":
		match.Abandon()
	default:
		h.sendError(key, "Unknown message type")
		return
	}

	if err != nil {
		h.log.Debugw("[WS] request rejected", "player", key, "type", msg.Type, "error", err)
		h.sendError(key, err.Error())
	}
}

func (h *Handler) sendError(key, message string) {
	h.ConnManager.SendMessage(key, domain.ServerMessage{Type: MessageError, Message: message})
}

// ListenForRankingRefresh forwards leaderboard invalidations to every socket
// until ctx ends.
func (h *Handler) ListenForRankingRefresh(ctx context.Context, listen func(ctx context.Context, onRefresh func())) {
	listen(ctx, func() {
		h.ConnManager.BroadcastMessage(domain.ServerMessage{Type: MessageLeaderboardRefresh})
	})
}
