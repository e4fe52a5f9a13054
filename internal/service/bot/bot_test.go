package bot

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// replay builds a state by applying moves alternately from first.
func replay(t *testing.T, level int, first domain.Cell, moves ...int) *domain.MatchState {
	t.Helper()
	s := domain.NewMatchState(domain.DefaultTiers()[level], first)
	for _, m := range moves {
		if _, err := s.ApplyMove(m, s.Turn); err != nil {
			t.Fatalf("replay move %d: %v", m, err)
		}
	}
	return s
}

func TestRandomNoLegalMove(t *testing.T) {
	s := replay(t, 1, domain.Player, 0, 1, 2, 4, 3, 5, 7, 6, 8)
	if _, err := NewRandom(newRNG(1)).SelectMove(s); !errors.Is(err, domain.ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestRandomPicksEmptyCells(t *testing.T) {
	s := replay(t, 1, domain.Player, 4, 0)
	r := NewRandom(newRNG(2))
	for n := 0; n < 100; n++ {
		i, err := r.SelectMove(s)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if s.Board[i] != domain.Empty {
			t.Fatalf("random picked occupied cell %d", i)
		}
	}
}

func TestGreedyPrefersWinOverBlock(t *testing.T) {
	// bot: 0 1, player: 3 4, bot to move
	s := replay(t, 3, domain.Bot, 0, 3, 1, 4)
	got, err := NewGreedy(newRNG(3)).SelectMove(s)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != 2 {
		t.Fatalf("greedy played %d, want winning cell 2", got)
	}
}

func TestGreedyBlocks(t *testing.T) {
	// player: 0 1, bot: 4, bot to move
	s := replay(t, 3, domain.Player, 0, 4, 1)
	got, err := NewGreedy(newRNG(4)).SelectMove(s)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != 2 {
		t.Fatalf("greedy played %d, want block at 2", got)
	}
}

func TestGreedyCenterThenCorner(t *testing.T) {
	g := NewGreedy(newRNG(5))

	s := replay(t, 3, domain.Player, 1)
	if got, _ := g.SelectMove(s); got != domain.Center {
		t.Fatalf("greedy played %d, want center", got)
	}

	s = replay(t, 3, domain.Player, domain.Center)
	for n := 0; n < 50; n++ {
		got, err := g.SelectMove(s)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got != 0 && got != 2 && got != 6 && got != 8 {
			t.Fatalf("greedy played %d, want a corner", got)
		}
	}
}

func TestGreedyAccountsForEviction(t *testing.T) {
	// Bot holds 0 1 8 with 0 oldest, so 2 would evict 0 and not win.
	s := replay(t, 4, domain.Bot, 0, 3, 1, 5, 8, 7)
	got, err := NewGreedy(newRNG(6)).SelectMove(s)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != domain.Center {
		t.Fatalf("greedy played %d, want center", got)
	}
}

func TestHybridMixesGreedyAndRandom(t *testing.T) {
	// bot can win at 2; five empty cells.
	s := replay(t, 2, domain.Bot, 0, 3, 1, 4)
	h := NewHybrid(domain.HybridGreedyProbability, newRNG(7))

	const trials = 2000
	wins := 0
	for n := 0; n < trials; n++ {
		got, err := h.SelectMove(s)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got == 2 {
			wins++
		}
	}
	// 0.7 + 0.3/5 = 0.76
	rate := float64(wins) / trials
	if rate < 0.70 || rate > 0.82 {
		t.Fatalf("winning move rate %.3f outside expected band", rate)
	}

	always := NewHybrid(1, newRNG(8))
	for n := 0; n < 50; n++ {
		if got, _ := always.SelectMove(s); got != 2 {
			t.Fatalf("p=1 hybrid played %d", got)
		}
	}
}

func TestForTier(t *testing.T) {
	rng := newRNG(9)
	tiers := domain.DefaultTiers()
	wantType := map[int]string{1: "random", 2: "hybrid", 3: "greedy", 4: "search", 5: "search"}
	for level, want := range wantType {
		st, err := ForTier(tiers[level], rng)
		if err != nil {
			t.Fatalf("tier %d: %v", level, err)
		}
		var got string
		switch st.(type) {
		case *Random:
			got = "random"
		case *Hybrid:
			got = "hybrid"
		case *Greedy:
			got = "greedy"
		case *Search:
			got = "search"
		}
		if got != want {
			t.Fatalf("tier %d built %s, want %s", level, got, want)
		}
	}

	if _, err := ForTier(domain.Tier{Level: 9, Strategy: "oracle"}, rng); !errors.Is(err, domain.ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}
