package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/roundid"
)

func playRound(t *testing.T, bus game.EventBus, id, cards string) {
	t.Helper()
	r := game.NewRound(500,
		game.WithDeck(deck.FromCards(deck.MustParseCards(cards)...)),
		game.WithEventBus(bus),
		game.WithClock(quartz.NewMock(t)),
		game.WithRoundID(id))
	require.NoError(t, r.PlaceBet(20))
	if r.Phase() == game.PlayerTurn {
		require.NoError(t, r.Stand())
	}
}

func TestRecorderWritesOneLinePerRound(t *testing.T) {
	var buf bytes.Buffer
	bus := game.NewEventBus()
	bus.Subscribe(NewRecorder(&buf, "alice"))

	playRound(t, bus, "r1", "10h8c10s6dKh")
	playRound(t, bus, "r2", "AsKh9c7d")

	var lines []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "r1", first["round"])
	assert.Equal(t, "alice", first["player"])
	assert.Equal(t, "dealer_bust", first["outcome"])
	assert.Equal(t, true, first["won"])
	assert.InDelta(t, 20, first["delta"], 0)
	assert.InDelta(t, 520, first["balance_after"], 0)
	assert.Equal(t, []any{"10♠", "6♦", "K♥"}, first["dealer_hand"])
	assert.InDelta(t, 26, first["dealer_value"], 0)

	second := lines[1]
	assert.Equal(t, "blackjack", second["outcome"])
	assert.InDelta(t, 40, second["delta"], 0)
}

func TestRecorderIgnoresUnsettledRounds(t *testing.T) {
	var buf bytes.Buffer
	bus := game.NewEventBus()
	bus.Subscribe(NewRecorder(&buf, "alice"))

	r := game.NewRound(500,
		game.WithDeck(deck.FromCards(deck.MustParseCards("10h8c10s6d")...)),
		game.WithEventBus(bus))
	require.NoError(t, r.PlaceBet(20))

	assert.Zero(t, buf.Len())
}

func TestRecorderAddsStartFromRoundID(t *testing.T) {
	var buf bytes.Buffer
	bus := game.NewEventBus()
	bus.Subscribe(NewRecorder(&buf, "alice"))

	id := roundid.New()
	started, err := roundid.Time(id)
	require.NoError(t, err)
	playRound(t, bus, id, "AsKh9c7d")
	playRound(t, bus, "plain", "AsKh9c7d")

	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	var line map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
	require.Contains(t, line, "started")
	at, err := time.Parse(time.RFC3339, line["started"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, started, at, time.Second)

	require.True(t, sc.Scan())
	line = nil
	require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
	assert.NotContains(t, line, "started")
}
