package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/bot"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/uid"
	"go.uber.org/zap"
)

const DefaultRestartCooldown = 3 * time.Second

type Options struct {
	Tiers domain.TierTable

	Stats   StatsStore      // nil keeps the record in memory only
	Ranking RankingNotifier // optional
	History MatchHistory    // optional

	// Observer receives a snapshot after every mutation. It runs while the
	// match is locked and must not call back into the Match.
	Observer func(domain.Snapshot)

	// StrategyFor builds the bot for a tier; defaults to bot.ForTier.
	StrategyFor func(domain.Tier, *rand.Rand) (bot.Strategy, error)

	Rand            *rand.Rand
	FirstTurn       domain.Cell // Empty means a coin toss
	RestartCooldown time.Duration
	TickStep        time.Duration
	NewTicker       func(time.Duration) Ticker
	Now             func() time.Time
	NewMatchID      func() string
	Logger          *zap.SugaredLogger
}

// Match drives one player's games against the bot, one match at a time.
type Match struct {
	mu   sync.Mutex
	opts Options
	log  *zap.SugaredLogger

	phase    domain.Phase
	matchID  string
	tier     domain.Tier
	state    *domain.MatchState
	strategy bot.Strategy

	lastMove   int
	lastMoveBy domain.Cell
	evicted    int
	forced     bool

	scoreDelta int
	record     domain.StatsRecord
	scored     bool
	persistErr string

	lastStart    time.Time
	lastActivity time.Time
	closed       bool

	countdown *Countdown
	timerGen  uint64
	ticker    Ticker
	stopTimer chan struct{}
}

func NewMatch(opts Options) *Match {
	if opts.Tiers == nil {
		opts.Tiers = domain.DefaultTiers()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.StrategyFor == nil {
		opts.StrategyFor = bot.ForTier
	}
	if opts.TickStep <= 0 {
		opts.TickStep = DefaultTickStep
	}
	if opts.NewTicker == nil {
		opts.NewTicker = newTimeTicker
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewMatchID == nil {
		opts.NewMatchID = uid.GenerateMatchID
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	m := &Match{
		opts:     opts,
		log:      opts.Logger,
		phase:    domain.PhaseIdle,
		lastMove: domain.NoCell,
		evicted:  domain.NoCell,
	}
	m.lastActivity = opts.Now()
	return m
}

// Start begins a new match at level, discarding any match in progress.
// When the bot wins the coin toss it plays its opening move before Start
// returns.
func (m *Match) Start(ctx context.Context, level int) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return m.snapshotLocked(), domain.ErrNoMatch
	}

	now := m.opts.Now()
	if m.phase != domain.PhaseIdle && now.Sub(m.lastStart) < m.opts.RestartCooldown {
		return m.snapshotLocked(), domain.ErrRestartCooldown
	}

	tier, err := m.opts.Tiers.Lookup(level)
	if err != nil {
		return m.snapshotLocked(), err
	}
	strategy, err := m.opts.StrategyFor(tier, m.opts.Rand)
	if err != nil {
		return m.snapshotLocked(), err
	}

	m.disarmTimerLocked()

	first := m.opts.FirstTurn
	if first != domain.Player && first != domain.Bot {
		first = domain.Player
		if m.opts.Rand.IntN(2) == 0 {
			first = domain.Bot
		}
	}

	m.phase = domain.PhaseInProgress
	m.matchID = m.opts.NewMatchID()
	m.tier = tier
	m.strategy = strategy
	m.state = domain.NewMatchState(tier, first)
	m.lastMove, m.lastMoveBy, m.evicted, m.forced = domain.NoCell, domain.Empty, domain.NoCell, false
	m.scoreDelta, m.scored, m.persistErr = 0, false, ""
	m.lastStart = now
	m.lastActivity = now

	m.log.Infow("[MATCH] started", "match", m.matchID, "tier", tier.Level, "name", tier.Name, "first", first.String())
	m.publishLocked()

	if first == domain.Bot {
		if err := m.botMoveLocked(ctx); err != nil {
			m.resetLocked()
			m.lastStart = time.Time{}
			m.publishLocked()
			return m.snapshotLocked(), err
		}
	}
	m.armTimerLocked()

	return m.snapshotLocked(), nil
}

// PlayerMove applies the player's move at index and, unless the match is
// over, answers with the bot's move.
func (m *Match) PlayerMove(ctx context.Context, index int) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.playerMoveLocked(ctx, index, false); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (m *Match) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

// Abandon returns to the menu without scoring the current match.
func (m *Match) Abandon() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disarmTimerLocked()
	if m.phase == domain.PhaseInProgress {
		m.log.Infow("[MATCH] abandoned", "match", m.matchID, "turn", m.state.TurnNumber())
	}
	m.resetLocked()
	m.publishLocked()
	return m.snapshotLocked()
}

// Close stops the timer for good. Further Start calls fail.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disarmTimerLocked()
	m.closed = true
}

// LastActivity is the time of the last start or move.
func (m *Match) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastActivity
}

// Phase reports the lifecycle state without building a snapshot.
func (m *Match) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.phase
}

func (m *Match) resetLocked() {
	m.phase = domain.PhaseIdle
	m.matchID = ""
	m.tier = domain.Tier{}
	m.state = nil
	m.strategy = nil
	m.lastMove, m.lastMoveBy, m.evicted, m.forced = domain.NoCell, domain.Empty, domain.NoCell, false
	m.scoreDelta, m.scored, m.persistErr = 0, false, ""
}

func (m *Match) playerMoveLocked(ctx context.Context, index int, forced bool) error {
	if m.closed || m.phase == domain.PhaseIdle {
		return domain.ErrNoMatch
	}

	evicted, err := m.state.ApplyMove(index, domain.Player)
	if err != nil {
		if errors.Is(err, domain.ErrInconsistentState) {
			m.log.Errorw("[MATCH] state check failed", "match", m.matchID, "error", err)
		}
		return err
	}
	m.disarmTimerLocked()
	m.recordMoveLocked(index, domain.Player, evicted, forced)
	m.publishLocked()

	if m.state.IsFinished() {
		m.finishLocked(ctx)
		return nil
	}

	if err := m.botMoveLocked(ctx); err != nil {
		return err
	}
	m.armTimerLocked()
	return nil
}

func (m *Match) botMoveLocked(ctx context.Context) error {
	index, err := m.strategy.SelectMove(m.state)
	if err != nil {
		m.log.Errorw("[BOT] could not select a move", "match", m.matchID, "tier", m.tier.Level, "board", m.state.Board, "error", err)
		return err
	}

	evicted, err := m.state.ApplyMove(index, domain.Bot)
	if err != nil {
		m.log.Errorw("[BOT] move rejected", "match", m.matchID, "index", index, "error", err)
		return err
	}
	m.recordMoveLocked(index, domain.Bot, evicted, false)
	m.publishLocked()

	if m.state.IsFinished() {
		m.finishLocked(ctx)
	}
	return nil
}

func (m *Match) recordMoveLocked(index int, side domain.Cell, evicted int, forced bool) {
	m.lastMove, m.lastMoveBy, m.evicted, m.forced = index, side, evicted, forced
	m.lastActivity = m.opts.Now()
}

// finishLocked scores the match and hands the result to the collaborators.
// Their failures are logged and reported, never rolled back.
func (m *Match) finishLocked(ctx context.Context) {
	m.disarmTimerLocked()
	m.phase = domain.PhaseTerminal

	result := m.state.Result
	turns := m.state.TurnNumber()
	topTier := m.tier.Level == m.opts.Tiers.TopLevel()
	m.scoreDelta = domain.Score(result, m.tier, turns)

	base := m.record
	if m.opts.Stats != nil {
		loaded, err := m.opts.Stats.Load(ctx)
		if err != nil {
			m.log.Warnw("[STATS] load failed, using in-memory record", "match", m.matchID, "error", err)
		} else {
			base = loaded
		}
	}
	m.record = base.Apply(result, m.scoreDelta, topTier)
	m.scored = true

	if m.opts.Stats != nil {
		if err := m.opts.Stats.Save(ctx, m.record); err != nil {
			m.log.Warnw("[STATS] save failed", "match", m.matchID, "error", err)
			m.persistErr = err.Error()
		}
	}

	if m.opts.History != nil {
		rec := domain.MatchRecord{
			MatchID:    m.matchID,
			Tier:       m.tier.Level,
			Result:     result,
			ScoreDelta: m.scoreDelta,
			Turns:      turns,
			Board:      m.state.Board,
		}
		if err := m.opts.History.RecordMatch(ctx, rec); err != nil {
			m.log.Warnw("[MATCH] history not recorded", "match", m.matchID, "error", err)
		}
	}

	if m.opts.Ranking != nil {
		m.opts.Ranking.NotifyMatchCompleted(ctx)
	}

	m.log.Infow("[MATCH] finished", "match", m.matchID, "result", result, "turn", turns, "delta", m.scoreDelta, "total", m.record.TotalScore)
	m.publishLocked()
}

func (m *Match) publishLocked() {
	if m.opts.Observer != nil {
		m.opts.Observer(m.snapshotLocked())
	}
}

func (m *Match) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		MatchID:      m.matchID,
		Phase:        m.phase,
		Result:       domain.Ongoing,
		PlayerStones: []int{},
		BotStones:    []int{},
		NextEviction: domain.NoCell,
		LastMove:     m.lastMove,
		LastMoveBy:   m.lastMoveBy,
		Evicted:      m.evicted,
		Forced:       m.forced,
	}
	if m.state == nil {
		return snap
	}

	s := m.state
	snap.Tier = m.tier.Level
	snap.TierName = m.tier.Name
	snap.Board = s.Board
	snap.Turn = s.Turn
	snap.TurnNumber = s.TurnNumber()
	snap.SlidingWindow = s.SlidingWindow
	snap.PlayerStones = append(snap.PlayerStones, s.PlayerStones...)
	snap.BotStones = append(snap.BotStones, s.BotStones...)
	snap.Result = s.Result

	if m.phase == domain.PhaseInProgress {
		snap.NextEviction = s.NextEviction(s.Turn)
	}
	if m.countdown != nil {
		snap.TimerActive = true
		snap.TimeRemainingMs = m.countdown.Remaining().Milliseconds()
	}
	if m.scored {
		record := m.record
		snap.ScoreDelta = m.scoreDelta
		snap.Stats = &record
		snap.PersistError = m.persistErr
	}
	return snap
}
