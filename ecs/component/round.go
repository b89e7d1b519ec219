package component

// Round is the match scoreboard, held by a single match entity.
type Round struct {
	PlayerWins  int
	EnemyWins   int
	RoundsToWin int
	Number      int

	// Transitioning latches while a round decision is being applied.
	Transitioning bool
	Ended         bool
	Winner        Faction

	CountdownSeconds float64
	SessionSeconds   float64

	// Elapsed is unblocked world time since the match began.
	Elapsed float64
}

var RoundComponent = NewComponent[Round]()

// Wins returns the round count of faction.
func (r *Round) Wins(f Faction) int {
	switch f {
	case FactionPlayer:
		return r.PlayerWins
	case FactionEnemy:
		return r.EnemyWins
	}
	return 0
}
