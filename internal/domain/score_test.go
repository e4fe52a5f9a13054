package domain

import (
	"errors"
	"testing"
)

func TestScore(t *testing.T) {
	tiers := DefaultTiers()
	cases := []struct {
		name   string
		result Result
		level  int
		moves  int
		want   int
	}{
		{"win easy", PlayerWin, 1, 3, 7},
		{"win floor", PlayerWin, 1, 40, 1},
		{"win top tier doubled", PlayerWin, 5, 4, 96},
		{"draw", Draw, 3, 5, 3},
		{"loss easy", BotWin, 1, 3, -5},
		{"loss top tier", BotWin, 5, 9, 0},
		{"ongoing", Ongoing, 2, 1, 0},
	}
	for _, tc := range cases {
		if got := Score(tc.result, tiers[tc.level], tc.moves); got != tc.want {
			t.Fatalf("%s: Score = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestLossPenaltiesSoftenWithLevel(t *testing.T) {
	tiers := DefaultTiers()
	prev := Score(BotWin, tiers[1], 1)
	for _, level := range tiers.Levels()[1:] {
		got := Score(BotWin, tiers[level], 1)
		if got < prev {
			t.Fatalf("tier %d penalty %d harsher than %d", level, got, prev)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("top tier penalty = %d, want 0", prev)
	}
}

func TestStatsRecordApply(t *testing.T) {
	var r StatsRecord
	r = r.Apply(PlayerWin, 96, true)
	r = r.Apply(BotWin, -4, false)
	r = r.Apply(Draw, 3, false)
	r = r.Apply(Ongoing, 50, false)

	want := StatsRecord{Wins: 1, Losses: 1, Draws: 1, TotalScore: 95, TopTierCleared: true}
	if r != want {
		t.Fatalf("record = %+v, want %+v", r, want)
	}
	if r.WinRate() != 33 {
		t.Fatalf("win rate = %d, want 33", r.WinRate())
	}
	if (StatsRecord{}).WinRate() != 0 {
		t.Fatalf("empty record win rate should be 0")
	}
}

func TestTierTable(t *testing.T) {
	tiers := DefaultTiers()
	if err := tiers.Validate(); err != nil {
		t.Fatalf("default tiers invalid: %v", err)
	}
	if tiers.TopLevel() != 5 {
		t.Fatalf("top level = %d", tiers.TopLevel())
	}
	if _, err := tiers.Lookup(9); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
	top := tiers[5]
	if !top.SlidingWindow || !top.Timed() || top.ScoreMultiplier != 2 || top.Strategy != StrategySearch {
		t.Fatalf("unexpected top tier %+v", top)
	}

	tiers[6] = Tier{Level: 7, Strategy: StrategyRandom}
	if err := tiers.Validate(); err == nil {
		t.Fatalf("expected mismatched level to fail validation")
	}
}
