// Package history writes one JSON line per settled round.
package history

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/roundid"
)

// Recorder is a game.EventSubscriber that appends settled rounds to w.
type Recorder struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	username string
	bets     map[string]int64 // round -> balance when the bet was placed
}

// NewRecorder writes rounds played by username to w.
func NewRecorder(w io.Writer, username string) *Recorder {
	return &Recorder{
		logger:   zerolog.New(w),
		username: username,
		bets:     make(map[string]int64),
	}
}

func (r *Recorder) OnEvent(event game.RoundEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case game.RoundStartEvent:
		r.bets[e.RoundID] = e.Balance
	case game.RoundSettledEvent:
		balance, ok := r.bets[e.RoundID]
		delete(r.bets, e.RoundID)

		o := e.Outcome
		entry := r.logger.Log().
			Time("at", e.At).
			Str("round", e.RoundID).
			Str("player", r.username).
			Str("outcome", o.Kind.String()).
			Bool("won", o.Won()).
			Int64("bet", o.Bet).
			Int64("delta", o.ChipsDelta).
			Strs("player_hand", cardStrings(o.PlayerHand)).
			Int("player_value", o.PlayerValue).
			Strs("dealer_hand", cardStrings(o.DealerHand)).
			Int("dealer_value", o.DealerValue)
		if ok {
			entry = entry.Int64("balance_after", balance+o.ChipsDelta)
		}
		if started, err := roundid.Time(e.RoundID); err == nil {
			entry = entry.Time("started", started)
		}
		entry.Send()
	}
}

func cardStrings(h game.Hand) []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}
