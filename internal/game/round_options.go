package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

type roundConfig struct {
	id     string
	rng    *rand.Rand
	deck   *deck.Deck // If provided, used instead of shuffling a new deck
	bus    EventBus
	clock  quartz.Clock
	logger *log.Logger
}

// WithRNG sets the random source used to shuffle the round's deck.
func WithRNG(rng *rand.Rand) RoundOption {
	return func(c *roundConfig) {
		c.rng = rng
	}
}

// WithDeck sets a specific (usually stacked) deck. It overrides WithRNG.
func WithDeck(d *deck.Deck) RoundOption {
	return func(c *roundConfig) {
		c.deck = d
	}
}

// WithEventBus publishes round events on bus.
func WithEventBus(bus EventBus) RoundOption {
	return func(c *roundConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) RoundOption {
	return func(c *roundConfig) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) {
		c.logger = logger
	}
}

// WithRoundID overrides the generated round ID.
func WithRoundID(id string) RoundOption {
	return func(c *roundConfig) {
		c.id = id
	}
}

func newRoundConfig(opts []RoundOption) *roundConfig {
	cfg := &roundConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.id == "" {
		cfg.id = roundid.New()
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}
