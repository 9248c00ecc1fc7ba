package game

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	a, b := &recorder{}, &recorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(RoundStartEvent{Bet: 1})
	bus.Unsubscribe(a)
	bus.Publish(RoundStartEvent{Bet: 2})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}

type tally struct {
	seen []EventType
	out  *[]EventType
}

func (s tally) OnEvent(e RoundEvent) { *s.out = append(*s.out, e.EventType()) }

type tagged struct{ name string }

func (tagged) OnEvent(RoundEvent) {}

func TestUnsubscribeUncomparableSubscriber(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	sub := tally{seen: []EventType{}, out: &got}
	a := &recorder{}
	bus.Subscribe(sub)
	bus.Subscribe(a)

	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
	assert.NotPanics(t, func() { bus.Unsubscribe(tally{out: &got}) })
	bus.Unsubscribe(a)

	bus.Publish(RoundStartEvent{Bet: 1})
	assert.Equal(t, []EventType{EventTypeRoundStart}, got)
	assert.Empty(t, a.events)
}

func TestUnsubscribeComparableValue(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(tagged{name: "a"})
	bus.Subscribe(tagged{name: "b"})

	bus.Unsubscribe(tagged{name: "a"})
	assert.Equal(t, []EventSubscriber{tagged{name: "b"}}, bus.subscribers)
}

func TestSubscriberFunc(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	fn := SubscriberFunc(func(e RoundEvent) { got = append(got, e.EventType()) })
	bus.Subscribe(fn)
	bus.Unsubscribe(fn) // no-op

	bus.Publish(PhaseChangeEvent{From: AwaitingBet, To: PlayerTurn})
	assert.Equal(t, []EventType{EventTypePhaseChange}, got)
}

func TestLogSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	r, _ := stackedRound(t, 500, "10h8c10s6dKh")
	bus := NewEventBus()
	bus.Subscribe(NewLogSubscriber(logger))
	r.bus = bus

	require.NoError(t, r.PlaceBet(10))
	require.NoError(t, r.Stand())

	out := buf.String()
	assert.Contains(t, out, "Round started")
	assert.Contains(t, out, "Hole card revealed")
	assert.Contains(t, out, "Dealer draw")
	assert.Contains(t, out, "Round settled")
}

func TestEventJSON(t *testing.T) {
	r, rec := stackedRound(t, 500, "10h8c10s6dKh")
	require.NoError(t, r.PlaceBet(10))
	require.NoError(t, r.Stand())

	settled := rec.ofType(EventTypeRoundSettled)
	require.Len(t, settled, 1)

	data, err := json.Marshal(settled[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "test-round", decoded["round_id"])

	outcome := decoded["outcome"].(map[string]any)
	assert.Equal(t, "dealer_bust", outcome["kind"])
	assert.InDelta(t, 10, outcome["chips_delta"], 0)
	assert.Equal(t, []any{"10♥", "8♣"}, outcome["player_hand"])
}
