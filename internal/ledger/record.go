package ledger

// Record is one player's durable state.
type Record struct {
	Username    string `json:"username"`
	Credential  string `json:"-"`
	GamesPlayed int64  `json:"games_played"`
	GamesWon    int64  `json:"games_won"`
	Chips       int64  `json:"chips"`
}

// WinRate returns the share of games won as a percentage, 0 before any game.
func (r Record) WinRate() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return float64(r.GamesWon) / float64(r.GamesPlayed) * 100
}

// Standing is one row of the rankings.
type Standing struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Chips    int64  `json:"chips"`
}
