package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Round runs one bet-to-settlement cycle. It is not safe for concurrent use.
type Round struct {
	id      string
	phase   Phase
	balance int64 // balance the bet is validated against
	bet     int64

	deck    *deck.Deck
	player  Hand
	dealer  Hand
	outcome *Outcome

	rng    *rand.Rand
	bus    EventBus
	clock  quartz.Clock
	logger *log.Logger
}

// NewRound creates a round in AwaitingBet for a player holding balance chips.
func NewRound(balance int64, opts ...RoundOption) *Round {
	cfg := newRoundConfig(opts)

	return &Round{
		id:      cfg.id,
		phase:   AwaitingBet,
		balance: balance,
		deck:    cfg.deck,
		rng:     cfg.rng,
		bus:     cfg.bus,
		clock:   cfg.clock,
		logger:  cfg.logger.WithPrefix("round").With("round", cfg.id),
	}
}

// ID returns the round identifier
func (r *Round) ID() string { return r.id }

// Phase returns the current phase
func (r *Round) Phase() Phase { return r.phase }

// Bet returns the accepted bet, zero before PlaceBet succeeds
func (r *Round) Bet() int64 { return r.bet }

// Outcome returns the settlement result once the round is Settled.
func (r *Round) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// PlaceBet accepts the wager, deals two cards each (player first) and moves
// to PlayerTurn. A player natural settles the round immediately.
func (r *Round) PlaceBet(amount int64) error {
	if r.phase != AwaitingBet {
		return r.illegal("place bet")
	}
	if amount <= 0 || amount > r.balance {
		return fmt.Errorf("%w: %d with balance %d", ErrInvalidBet, amount, r.balance)
	}

	if r.deck == nil {
		rng := r.rng
		if rng == nil {
			rng = randutil.New(randutil.Seed(nil))
		}
		r.deck = deck.New(rng)
	}

	// Draw the whole deal first so a short deck leaves hands and phase untouched
	var dealt [4]deck.Card
	for i := range dealt {
		card, err := r.deck.Draw()
		if err != nil {
			return fmt.Errorf("deal: %w", err)
		}
		dealt[i] = card
	}

	r.bet = amount
	r.publish(RoundStartEvent{eventBase: r.base(), Bet: amount, Balance: r.balance})
	r.logger.Info("Bet placed", "bet", amount, "balance", r.balance)

	r.player = append(r.player, dealt[0], dealt[1])
	r.publishDealt(SeatPlayer, dealt[0], false, Value(r.player[:1]))
	r.publishDealt(SeatPlayer, dealt[1], false, r.player.Value())

	r.dealer = append(r.dealer, dealt[2], dealt[3])
	r.publishDealt(SeatDealer, dealt[2], true, 0)
	r.publishDealt(SeatDealer, dealt[3], false, Value(r.dealer[1:]))

	r.setPhase(PlayerTurn)

	if r.player.IsNatural() {
		r.settle()
	}
	return nil
}

// Hit draws one card for the player. Going over 21 settles as a bust.
func (r *Round) Hit() error {
	if r.phase != PlayerTurn {
		return r.illegal("hit")
	}

	card, err := r.deck.Draw()
	if err != nil {
		return fmt.Errorf("hit: %w", err)
	}
	r.player = append(r.player, card)
	r.publishDealt(SeatPlayer, card, false, r.player.Value())
	r.logger.Debug("Player hit", "card", card, "value", r.player.Value())

	if r.player.IsBust() {
		r.settle()
	}
	return nil
}

// Stand ends the player's turn. The dealer then draws one card at a time
// while under 17, and the round settles.
func (r *Round) Stand() error {
	if r.phase != PlayerTurn {
		return r.illegal("stand")
	}

	r.setPhase(DealerTurn)
	r.publish(HoleRevealedEvent{eventBase: r.base(), Card: r.dealer[0], DealerValue: r.dealer.Value()})

	for draw := 1; r.dealer.Value() < DealerStandsOn; draw++ {
		card, err := r.deck.Draw()
		if err != nil {
			return fmt.Errorf("dealer draw %d: %w", draw, err)
		}
		r.dealer = append(r.dealer, card)
		r.publish(DealerDrawEvent{eventBase: r.base(), Draw: draw, Card: card, DealerValue: r.dealer.Value()})
		r.logger.Debug("Dealer draw", "draw", draw, "card", card, "value", r.dealer.Value())
	}

	r.settle()
	return nil
}

func (r *Round) settle() {
	outcome := Settle(r.player, r.dealer, r.bet)
	r.outcome = &outcome
	r.setPhase(Settled)
	r.publish(RoundSettledEvent{eventBase: r.base(), Outcome: outcome})

	r.logger.Info("Round settled",
		"outcome", outcome.Kind,
		"delta", outcome.ChipsDelta,
		"player", outcome.PlayerValue,
		"dealer", outcome.DealerValue,
		"cards_left", r.deck.Remaining())
}

func (r *Round) setPhase(to Phase) {
	from := r.phase
	r.phase = to
	r.publish(PhaseChangeEvent{eventBase: r.base(), From: from, To: to})
}

func (r *Round) illegal(op string) error {
	r.logger.Warn("Rejected operation", "op", op, "phase", r.phase)
	return fmt.Errorf("%w: cannot %s during %s", ErrIllegalTransition, op, r.phase)
}

func (r *Round) base() eventBase {
	return eventBase{RoundID: r.id, At: r.clock.Now()}
}

func (r *Round) publishDealt(seat Seat, card deck.Card, hidden bool, value int) {
	e := CardDealtEvent{eventBase: r.base(), Seat: seat, Hidden: hidden, HandValue: value}
	if !hidden {
		c := card
		e.Card = &c
	}
	r.publish(e)
}

func (r *Round) publish(event RoundEvent) {
	r.bus.Publish(event)
}
