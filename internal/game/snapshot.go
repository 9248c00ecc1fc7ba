package game

import "github.com/lox/blackjack/internal/deck"

// Snapshot is what a presentation layer needs to render a round after any
// transition. During PlayerTurn only the dealer's up-card is included.
type Snapshot struct {
	RoundID      string   `json:"round_id"`
	Phase        Phase    `json:"phase"`
	Bet          int64    `json:"bet"`
	PlayerHand   Hand     `json:"player_hand"`
	PlayerValue  int      `json:"player_value"`
	DealerHand   Hand     `json:"dealer_hand"`
	DealerValue  int      `json:"dealer_value"`
	DealerHidden int      `json:"dealer_hidden"`
	Actions      []Action `json:"actions"`
	Outcome      *Outcome `json:"outcome,omitempty"`
}

// DealerUpCard returns the dealer's visible card during the player's turn.
func (s Snapshot) DealerUpCard() (deck.Card, bool) {
	if s.DealerHidden == 0 || len(s.DealerHand) == 0 {
		return deck.Card{}, false
	}
	return s.DealerHand[0], true
}

// CanAct reports whether action is currently accepted.
func (s Snapshot) CanAct(action Action) bool {
	for _, a := range s.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the round state safe to hand to renderers.
func (r *Round) Snapshot() Snapshot {
	s := Snapshot{
		RoundID:     r.id,
		Phase:       r.phase,
		Bet:         r.bet,
		PlayerHand:  r.player.Clone(),
		PlayerValue: r.player.Value(),
		Actions:     r.phase.ValidActions(),
	}

	switch r.phase {
	case AwaitingBet:
	case PlayerTurn:
		s.DealerHand = r.dealer[1:].Clone()
		s.DealerValue = s.DealerHand.Value()
		s.DealerHidden = 1
	default:
		s.DealerHand = r.dealer.Clone()
		s.DealerValue = r.dealer.Value()
	}

	if r.outcome != nil {
		o := *r.outcome
		s.Outcome = &o
	}
	return s
}
