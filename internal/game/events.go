package game

import (
	"reflect"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a round event type
type EventType string

const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypeHoleRevealed EventType = "hole_revealed"
	EventTypeDealerDraw   EventType = "dealer_draw"
	EventTypePhaseChange  EventType = "phase_change"
	EventTypeRoundSettled EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Seat identifies who receives a card.
type Seat string

const (
	SeatPlayer Seat = "player"
	SeatDealer Seat = "dealer"
)

// RoundEvent is anything that happens during a round
type RoundEvent interface {
	EventType() EventType
	Timestamp() time.Time
	Round() string
}

type eventBase struct {
	RoundID string    `json:"round_id"`
	At      time.Time `json:"at"`
}

func (e eventBase) Timestamp() time.Time { return e.At }
func (e eventBase) Round() string        { return e.RoundID }

// RoundStartEvent is published when a bet is accepted
type RoundStartEvent struct {
	eventBase
	Bet     int64 `json:"bet"`
	Balance int64 `json:"balance"`
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// CardDealtEvent is published for each card of the initial deal and each
// player hit. The dealer's hole card is published with Hidden set and no card.
type CardDealtEvent struct {
	eventBase
	Seat      Seat       `json:"seat"`
	Card      *deck.Card `json:"card,omitempty"`
	Hidden    bool       `json:"hidden,omitempty"`
	HandValue int        `json:"hand_value,omitempty"`
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// HoleRevealedEvent is published when the dealer turns over the hole card
type HoleRevealedEvent struct {
	eventBase
	Card        deck.Card `json:"card"`
	DealerValue int       `json:"dealer_value"`
}

func (e HoleRevealedEvent) EventType() EventType { return EventTypeHoleRevealed }

// DealerDrawEvent is published once per card the dealer draws
type DealerDrawEvent struct {
	eventBase
	Draw        int       `json:"draw"`
	Card        deck.Card `json:"card"`
	DealerValue int       `json:"dealer_value"`
}

func (e DealerDrawEvent) EventType() EventType { return EventTypeDealerDraw }

// PhaseChangeEvent is published on every phase transition
type PhaseChangeEvent struct {
	eventBase
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }

// RoundSettledEvent is published once, when the round reaches Settled
type RoundSettledEvent struct {
	eventBase
	Outcome Outcome `json:"outcome"`
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }

// EventSubscriber can subscribe to round events
type EventSubscriber interface {
	OnEvent(event RoundEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(event RoundEvent)

func (f SubscriberFunc) OnEvent(event RoundEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event RoundEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Only subscribers of comparable types
// (pointers, plain values) can be matched; others such as SubscriberFunc or
// structs holding slices are left in place.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sameSubscriber(sub, subscriber) {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// sameSubscriber compares without panicking on uncomparable dynamic types.
func sameSubscriber(a, b EventSubscriber) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	defer func() { _ = recover() }() // comparable struct with an uncomparable interface field
	return a == b
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event RoundEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// LogSubscriber writes every event to a logger at debug level.
type LogSubscriber struct {
	logger *log.Logger
}

// NewLogSubscriber creates a subscriber that logs events
func NewLogSubscriber(logger *log.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger.WithPrefix("events")}
}

func (s *LogSubscriber) OnEvent(event RoundEvent) {
	switch e := event.(type) {
	case RoundStartEvent:
		s.logger.Debug("Round started", "round", e.RoundID, "bet", e.Bet, "balance", e.Balance)
	case CardDealtEvent:
		if e.Hidden {
			s.logger.Debug("Card dealt", "round", e.RoundID, "seat", e.Seat, "card", "hidden")
			return
		}
		s.logger.Debug("Card dealt", "round", e.RoundID, "seat", e.Seat, "card", e.Card, "value", e.HandValue)
	case HoleRevealedEvent:
		s.logger.Debug("Hole card revealed", "round", e.RoundID, "card", e.Card, "dealer_value", e.DealerValue)
	case DealerDrawEvent:
		s.logger.Debug("Dealer draw", "round", e.RoundID, "draw", e.Draw, "card", e.Card, "dealer_value", e.DealerValue)
	case PhaseChangeEvent:
		s.logger.Debug("Phase change", "round", e.RoundID, "from", e.From, "to", e.To)
	case RoundSettledEvent:
		s.logger.Debug("Round settled", "round", e.RoundID, "outcome", e.Outcome.Kind, "delta", e.Outcome.ChipsDelta)
	}
}
