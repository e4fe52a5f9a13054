package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/bot"
)

// playSeeded plays a top-tier match from a fixed opening (bot 0, player 4)
// with all randomness drawn from seed, and returns the move trace.
func playSeeded(t *testing.T, seed uint64) ([]string, domain.Snapshot) {
	t.Helper()

	rng := rand.New(rand.NewPCG(seed, seed+1))
	h := newHarness(Options{
		Rand:      rng,
		FirstTurn: domain.Bot,
		StrategyFor: func(tier domain.Tier, r *rand.Rand) (bot.Strategy, error) {
			next, err := bot.ForTier(tier, r)
			if err != nil {
				return nil, err
			}
			return &scriptedBot{moves: []int{0}, next: next}, nil
		},
	})
	ctx := context.Background()
	if _, err := h.match.Start(ctx, 5); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, err := h.match.PlayerMove(ctx, 4)
	if err != nil {
		t.Fatalf("opening move: %v", err)
	}

	opening := h.snaps[2].Board
	want := domain.Board{domain.Bot, 0, 0, 0, domain.Player, 0, 0, 0, 0}
	if opening != want {
		t.Fatalf("opening board = %v, want %v", opening, want)
	}

	player := rand.New(rand.NewPCG(seed*31, 7))
	for n := 0; n < 12 && snap.Phase == domain.PhaseInProgress; n++ {
		empty := snap.Board.EmptyCells()
		if snap, err = h.match.PlayerMove(ctx, empty[player.IntN(len(empty))]); err != nil {
			t.Fatalf("move: %v", err)
		}
	}

	var trace []string
	for _, s := range h.snaps {
		if s.LastMove == domain.NoCell {
			continue
		}
		checkSnapshotInvariants(t, s)
		trace = append(trace, fmt.Sprintf("%s@%d-%d", s.LastMoveBy, s.LastMove, s.Evicted))
	}
	return trace, snap
}

func checkSnapshotInvariants(t *testing.T, s domain.Snapshot) {
	t.Helper()
	occupied := domain.BoardSize - len(s.Board.EmptyCells())
	if occupied != len(s.PlayerStones)+len(s.BotStones) {
		t.Fatalf("occupied %d != stones %d in %+v", occupied, len(s.PlayerStones)+len(s.BotStones), s)
	}
	if len(s.PlayerStones) > domain.MaxLiveStones || len(s.BotStones) > domain.MaxLiveStones {
		t.Fatalf("sliding window exceeded: %+v", s)
	}
	if s.Result == domain.Draw {
		t.Fatalf("sliding-window match drew: %+v", s)
	}
}

var seededTraces = []struct {
	seed   uint64
	trace  []string
	board  domain.Board
	result domain.Result
}{
	{
		seed: 1,
		trace: []string{
			"bot@0--1", "player@4--1", "bot@8--1", "player@2--1",
			"bot@6--1", "player@3--1", "bot@7-0", "bot@7-0",
		},
		board: domain.Board{
			domain.Empty, domain.Empty, domain.Player,
			domain.Player, domain.Player, domain.Empty,
			domain.Bot, domain.Bot, domain.Bot,
		},
		result: domain.BotWin,
	},
	{
		seed: 42,
		trace: []string{
			"bot@0--1", "player@4--1", "bot@8--1", "player@5--1",
			"bot@3--1", "player@1--1", "bot@6-0", "player@0-4",
			"bot@2-8", "player@4-5", "bot@8-3", "player@7-1",
			"bot@5-6", "bot@5-6",
		},
		board: domain.Board{
			domain.Player, domain.Empty, domain.Bot,
			domain.Empty, domain.Player, domain.Bot,
			domain.Empty, domain.Player, domain.Bot,
		},
		result: domain.BotWin,
	},
}

// The final move appears twice: once as played and once in the scored
// snapshot.
func TestSeededTopTierMatchReplays(t *testing.T) {
	for _, tc := range seededTraces {
		first, end1 := playSeeded(t, tc.seed)
		second, end2 := playSeeded(t, tc.seed)

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("seed %d diverged:\n%v\n%v", tc.seed, first, second)
		}
		if end1.Board != end2.Board || end1.Result != end2.Result {
			t.Fatalf("seed %d ended differently: %v/%s vs %v/%s", tc.seed, end1.Board, end1.Result, end2.Board, end2.Result)
		}

		if !reflect.DeepEqual(first, tc.trace) {
			t.Fatalf("seed %d trace:\n got %v\nwant %v", tc.seed, first, tc.trace)
		}
		if end1.Board != tc.board || end1.Result != tc.result {
			t.Fatalf("seed %d ended %v/%s, want %v/%s", tc.seed, end1.Board, end1.Result, tc.board, tc.result)
		}
		if end1.Phase != domain.PhaseTerminal {
			t.Fatalf("seed %d phase = %s", tc.seed, end1.Phase)
		}
	}
}
