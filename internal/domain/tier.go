package domain

import (
	"fmt"
	"sort"
	"time"
)

// StrategyKind names a move-selection policy.
type StrategyKind string

const (
	StrategyRandom StrategyKind = "random"
	StrategyHybrid StrategyKind = "hybrid"
	StrategyGreedy StrategyKind = "greedy"
	StrategySearch StrategyKind = "search"
)

func (k StrategyKind) Valid() bool {
	switch k {
	case StrategyRandom, StrategyHybrid, StrategyGreedy, StrategySearch:
		return true
	}
	return false
}

// Tier maps a difficulty level to a strategy and its rule parameters.
type Tier struct {
	Level             int           `mapstructure:"level" json:"level"`
	Name              string        `mapstructure:"name" json:"name"`
	Strategy          StrategyKind  `mapstructure:"strategy" json:"strategy"`
	GreedyProbability float64       `mapstructure:"greedy_probability" json:"greedyProbability,omitempty"`
	SlidingWindow     bool          `mapstructure:"sliding_window" json:"slidingWindow"`
	ScoreMultiplier   int           `mapstructure:"score_multiplier" json:"scoreMultiplier"`
	LossPenalty       int           `mapstructure:"loss_penalty" json:"lossPenalty"`
	TurnTimeout       time.Duration `mapstructure:"turn_timeout" json:"turnTimeout,omitempty"`
	SearchDepth       int           `mapstructure:"search_depth" json:"searchDepth,omitempty"`
}

func (t Tier) Timed() bool {
	return t.TurnTimeout > 0
}

func (t Tier) Validate() error {
	if t.Level < 1 {
		return fmt.Errorf("tier level %d: must be positive", t.Level)
	}
	if !t.Strategy.Valid() {
		return fmt.Errorf("tier %d: unknown strategy %q", t.Level, t.Strategy)
	}
	if t.GreedyProbability < 0 || t.GreedyProbability > 1 {
		return fmt.Errorf("tier %d: greedy probability %v outside [0,1]", t.Level, t.GreedyProbability)
	}
	if t.ScoreMultiplier < 0 || t.SearchDepth < 0 || t.TurnTimeout < 0 {
		return fmt.Errorf("tier %d: negative parameter", t.Level)
	}
	return nil
}

// TierTable is the configured difficulty ladder keyed by level.
type TierTable map[int]Tier

const HybridGreedyProbability = 0.7

func DefaultTiers() TierTable {
	return TierTable{
		1: {Level: 1, Name: "EASY", Strategy: StrategyRandom, ScoreMultiplier: 1, LossPenalty: -5},
		2: {Level: 2, Name: "NORMAL", Strategy: StrategyHybrid, GreedyProbability: HybridGreedyProbability, ScoreMultiplier: 1, LossPenalty: -4},
		3: {Level: 3, Name: "HARD", Strategy: StrategyGreedy, ScoreMultiplier: 1, LossPenalty: -3},
		4: {Level: 4, Name: "INFINITE", Strategy: StrategySearch, SlidingWindow: true, ScoreMultiplier: 1, LossPenalty: -2},
		5: {Level: 5, Name: "HELL", Strategy: StrategySearch, SlidingWindow: true, ScoreMultiplier: 2, LossPenalty: 0, TurnTimeout: 5 * time.Second},
	}
}

func (t TierTable) Lookup(level int) (Tier, error) {
	tier, ok := t[level]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %d", ErrUnknownTier, level)
	}
	return tier, nil
}

// TopLevel is the highest configured level, or 0 for an empty table.
func (t TierTable) TopLevel() int {
	top := 0
	for level := range t {
		top = max(top, level)
	}
	return top
}

func (t TierTable) Levels() []int {
	levels := make([]int, 0, len(t))
	for level := range t {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	for level, tier := range t {
		if tier.Level != level {
			return fmt.Errorf("tier keyed %d declares level %d", level, tier.Level)
		}
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	return nil
}
