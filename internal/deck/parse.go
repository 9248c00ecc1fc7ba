package deck

import (
	"fmt"
	"strings"
)

// ParseCards parses compact card notation into cards.
// Format: "AsKh10dTc" where each card is [Rank][Suit].
// Ranks: A, K, Q, J, 10 or T, 9 .. 2 (case-insensitive)
// Suits: s (spades), h (hearts), d (diamonds), c (clubs)
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")

	cards := []Card{}
	for i := 0; i < len(s); {
		rankLen := 1
		if strings.HasPrefix(s[i:], "10") {
			rankLen = 2
		}
		if i+rankLen >= len(s) {
			return nil, fmt.Errorf("incomplete card at position %d", i)
		}

		rank, err := parseRank(s[i : i+rankLen])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		suit, err := parseSuit(s[i+rankLen])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+rankLen, err)
		}

		cards = append(cards, NewCard(rank, suit))
		i += rankLen + 1
	}

	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	case "9":
		return Nine, nil
	case "8":
		return Eight, nil
	case "7":
		return Seven, nil
	case "6":
		return Six, nil
	case "5":
		return Five, nil
	case "4":
		return Four, nil
	case "3":
		return Three, nil
	case "2":
		return Two, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", s)
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 's', 'S':
		return Spades, nil
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	default:
		return 0, fmt.Errorf("unknown suit '%c'", c)
	}
}
