package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when drawing from a deck with no cards left.
// A single round never gets close; seeing it means a caller bug.
var ErrDeckExhausted = errors.New("deck: exhausted")

// Size is the number of cards in a full deck.
const Size = 52

// Deck is a finite, non-restartable sequence of cards dealt from the front.
type Deck struct {
	cards []Card
	next  int
}

// New creates a full 52-card deck shuffled with rng (Fisher-Yates).
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}

	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return &Deck{cards: cards}
}

// FromCards creates a stacked deck that deals the given cards in order.
func FromCards(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// Draw removes and returns the next card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[d.next]
	d.next++
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
