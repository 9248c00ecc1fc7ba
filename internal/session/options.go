package session

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	rng    *rand.Rand
	decks  func() *deck.Deck
	bus    game.EventBus
	clock  quartz.Clock
	logger *log.Logger
}

// WithRNG sets the source every round's deck is shuffled from.
func WithRNG(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithDeckSource supplies the deck for each new round, for stacked-deck play.
func WithDeckSource(next func() *deck.Deck) Option {
	return func(c *config) {
		c.decks = next
	}
}

// WithEventBus publishes every round's events on bus.
func WithEventBus(bus game.EventBus) Option {
	return func(c *config) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp round events.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.New(randutil.Seed(nil))
	}
	if cfg.bus == nil {
		cfg.bus = game.NewEventBus()
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}

func (c *config) roundOptions() []game.RoundOption {
	opts := []game.RoundOption{
		game.WithEventBus(c.bus),
		game.WithClock(c.clock),
		game.WithLogger(c.logger),
	}
	if c.decks != nil {
		return append(opts, game.WithDeck(c.decks()))
	}
	return append(opts, game.WithRNG(c.rng))
}
