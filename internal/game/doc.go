// Package game implements the blackjack rules for a single table.
//
// The main type is Round, an explicit state machine that covers one
// bet-to-settlement cycle:
//
//	AwaitingBet -> PlayerTurn -> DealerTurn -> Settled
//
// Settled is terminal; a new round needs a new Round.
//
// # Basic Usage
//
//	r := game.NewRound(balance, game.WithRNG(rng))
//	if err := r.PlaceBet(50); err != nil {
//	    // errors.Is(err, game.ErrInvalidBet)
//	}
//	for r.Phase() == game.PlayerTurn && r.Snapshot().PlayerValue < 17 {
//	    _ = r.Hit()
//	}
//	if r.Phase() == game.PlayerTurn {
//	    _ = r.Stand()
//	}
//	outcome, _ := r.Outcome()
//
// # Deterministic Testing
//
// Pass a stacked deck to control every card:
//
//	d := deck.FromCards(deck.MustParseCards("10h9cAs7d")...)
//	r := game.NewRound(500, game.WithDeck(d))
//
// Cards are dealt player, player, dealer, dealer. The dealer's first card is
// the hole card; the second is shown during the player's turn.
//
// # Events
//
// Every transition is published on an EventBus. The dealer's turn is a
// sequence of DealerDrawEvent values, one per card, so spectators and tests
// see each draw rather than only the final hand.
package game
