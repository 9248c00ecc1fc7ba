package game

import "fmt"

// OutcomeKind classifies how a round ended.
type OutcomeKind int

const (
	PlayerBust OutcomeKind = iota + 1
	PlayerBlackjack
	DealerBust
	Push
	PlayerWin
	DealerWin
)

func (k OutcomeKind) String() string {
	switch k {
	case PlayerBust:
		return "player_bust"
	case PlayerBlackjack:
		return "blackjack"
	case DealerBust:
		return "dealer_bust"
	case Push:
		return "push"
	case PlayerWin:
		return "player_win"
	case DealerWin:
		return "dealer_win"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of a settled round.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	Bet         int64       `json:"bet"`
	ChipsDelta  int64       `json:"chips_delta"`
	PlayerHand  Hand        `json:"player_hand"`
	DealerHand  Hand        `json:"dealer_hand"`
	PlayerValue int         `json:"player_value"`
	DealerValue int         `json:"dealer_value"`
}

// Won reports whether the round counts as a win for the player's record.
func (o Outcome) Won() bool {
	switch o.Kind {
	case PlayerBlackjack, DealerBust, PlayerWin:
		return true
	default:
		return false
	}
}

// Settle decides a finished round. Rules are checked in order and the first
// match wins, so a busted player loses even when the dealer also busts.
func Settle(player, dealer Hand, bet int64) Outcome {
	pv, dv := player.Value(), dealer.Value()

	o := Outcome{
		Bet:         bet,
		PlayerHand:  player.Clone(),
		DealerHand:  dealer.Clone(),
		PlayerValue: pv,
		DealerValue: dv,
	}

	switch {
	case pv > Blackjack:
		o.Kind, o.ChipsDelta = PlayerBust, -bet
	case player.IsNatural():
		o.Kind, o.ChipsDelta = PlayerBlackjack, 2*bet
	case dv > Blackjack:
		o.Kind, o.ChipsDelta = DealerBust, bet
	case pv == dv:
		o.Kind, o.ChipsDelta = Push, 0
	case pv > dv:
		o.Kind, o.ChipsDelta = PlayerWin, bet
	default:
		o.Kind, o.ChipsDelta = DealerWin, -bet
	}

	return o
}
