package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// Blackjack is the best hand total.
	Blackjack = 21

	// DealerStandsOn is the total at which the dealer stops drawing.
	DealerStandsOn = 17
)

// Hand is the ordered sequence of cards held by the player or the dealer.
// It only ever grows by appending.
type Hand []deck.Card

// Value returns the blackjack total of cards. Aces start at 11 and are
// reduced to 1 one at a time, only while the total is over 21.
func Value(cards []deck.Card) int {
	total := 0
	softAces := 0

	for _, c := range cards {
		switch {
		case c.Rank == deck.Ace:
			total += 11
			softAces++
		case c.Rank.IsFace():
			total += 10
		default:
			total += int(c.Rank)
		}
	}

	for total > Blackjack && softAces > 0 {
		total -= 10
		softAces--
	}

	return total
}

// Value returns the hand total. It is recomputed on every call.
func (h Hand) Value() int {
	return Value(h)
}

// IsBust returns true when the hand is over 21.
func (h Hand) IsBust() bool {
	return h.Value() > Blackjack
}

// IsNatural returns true for a two-card 21.
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Value() == Blackjack
}

// Clone returns a copy that does not share storage with h.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// String renders the cards separated by spaces (e.g. "A♠ 10♥")
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
