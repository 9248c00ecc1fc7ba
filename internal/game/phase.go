package game

import "fmt"

// Phase is the state of a Round.
type Phase int

const (
	AwaitingBet Phase = iota
	PlayerTurn
	DealerTurn
	Settled
)

func (p Phase) String() string {
	switch p {
	case AwaitingBet:
		return "awaiting_bet"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// InProgress returns true while cards are being played.
func (p Phase) InProgress() bool {
	return p == PlayerTurn || p == DealerTurn
}

// Action is an operation the presentation layer can offer the player.
type Action string

const (
	ActionBet   Action = "bet"
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)

// ValidActions returns the operations a Round accepts in phase p.
func (p Phase) ValidActions() []Action {
	switch p {
	case AwaitingBet:
		return []Action{ActionBet}
	case PlayerTurn:
		return []Action{ActionHit, ActionStand}
	default:
		return nil
	}
}
