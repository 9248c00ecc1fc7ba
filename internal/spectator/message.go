package spectator

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/game"
)

// Message is the JSON frame sent to spectators, one per round event.
type Message struct {
	Type      game.EventType  `json:"type"`
	Round     string          `json:"round"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a round event.
func NewMessage(event game.RoundEvent) (*Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      event.EventType(),
		Round:     event.Round(),
		Data:      data,
		Timestamp: event.Timestamp(),
	}, nil
}
