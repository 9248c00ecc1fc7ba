package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  int
	}{
		{"pair of numbers", "10h9c", 19},
		{"face cards count ten", "KsQd", 20},
		{"ace counts eleven", "As9h", 20},
		{"ace reduced when over", "As9h2c", 12},
		{"two aces and nine reduce once", "AsAh9c", 21},
		{"two aces", "AsAh", 12},
		{"three aces", "AsAhAd", 13},
		{"four aces and seven", "AsAhAdAc7d", 21},
		{"ace stays soft when possible", "As5hKc", 16},
		{"bust without aces", "KsQd2c", 22},
		{"natural", "AsKh", 21},
		{"empty hand", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(deck.MustParseCards(tt.cards)))
		})
	}
}

func TestHandPredicates(t *testing.T) {
	natural := Hand(deck.MustParseCards("AsKh"))
	assert.True(t, natural.IsNatural())
	assert.False(t, natural.IsBust())

	threeCard21 := Hand(deck.MustParseCards("7s7h7d"))
	assert.Equal(t, 21, threeCard21.Value())
	assert.False(t, threeCard21.IsNatural(), "21 with three cards is not a natural")

	bust := Hand(deck.MustParseCards("10sQhKd"))
	assert.True(t, bust.IsBust())
}

func TestHandCloneIsIndependent(t *testing.T) {
	h := Hand(deck.MustParseCards("2s3h"))
	c := h.Clone()
	c[0] = deck.NewCard(deck.Ace, deck.Spades)

	assert.Equal(t, deck.Two, h[0].Rank)
	assert.Equal(t, "2♠ 3♥", h.String())
}
