package domain

// Score converts a finished match into a point delta for the player.
// moveCountBySide is the round counter (MatchState.TurnNumber).
func Score(result Result, tier Tier, moveCountBySide int) int {
	switch result {
	case PlayerWin:
		multiplier := max(tier.ScoreMultiplier, 1)
		return max(1, tier.Level*10*multiplier-moveCountBySide)
	case BotWin:
		return tier.LossPenalty
	case Draw:
		return tier.Level
	default:
		return 0
	}
}
