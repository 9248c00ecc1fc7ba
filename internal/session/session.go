// Package session binds one authenticated player to their ledger record and
// to the round in play. Settled rounds are written to the ledger before the
// next round can start.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
)

// ErrRoundInProgress is returned by BeginBetting while cards are in play.
var ErrRoundInProgress = errors.New("session: round in progress")

// Stats summarises a player's record.
type Stats struct {
	Username    string  `json:"username"`
	GamesPlayed int64   `json:"games_played"`
	GamesWon    int64   `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
	Chips       int64   `json:"chips"`
}

// Session is one logged-in player. It is not safe for concurrent use.
type Session struct {
	ledger   *ledger.Ledger
	username string
	balance  int64

	round    *game.Round
	recorded bool          // round's outcome handed to the ledger
	pending  *game.Outcome // outcome the ledger failed to store

	cfg    *config
	logger *log.Logger
}

// Login authenticates against the ledger and starts a session.
func Login(l *ledger.Ledger, username, credential string, opts ...Option) (*Session, error) {
	rec, err := l.Authenticate(username, credential)
	if err != nil {
		return nil, err
	}
	return newSession(l, rec, opts), nil
}

// Register creates the player and logs them in.
func Register(l *ledger.Ledger, username, credential string, opts ...Option) (*Session, error) {
	rec, err := l.Register(username, credential)
	if err != nil {
		return nil, err
	}
	return newSession(l, rec, opts), nil
}

func newSession(l *ledger.Ledger, rec ledger.Record, opts []Option) *Session {
	cfg := newConfig(opts)
	s := &Session{
		ledger:   l,
		username: rec.Username,
		balance:  rec.Chips,
		cfg:      cfg,
		logger:   cfg.logger.WithPrefix("session").With("user", rec.Username),
	}
	s.logger.Info("Logged in", "balance", rec.Chips)
	return s
}

// Username returns the logged-in player
func (s *Session) Username() string { return s.username }

// Balance returns the cached chip balance
func (s *Session) Balance() int64 { return s.balance }

// Pending reports whether a settled round is waiting to be stored.
func (s *Session) Pending() bool { return s.pending != nil }

// HasRound reports whether a round has been started. It is false after
// login until BeginBetting succeeds, and after Abandon.
func (s *Session) HasRound() bool { return s.round != nil }

// Abandon discards a round stuck before settlement, for example when a
// stacked deck runs out during the dealer's draws. Chips only move at
// settlement, so the balance is untouched. It reports whether a round was
// dropped.
func (s *Session) Abandon() bool {
	if s.round == nil || !s.round.Phase().InProgress() {
		return false
	}
	s.logger.Warn("Round abandoned", "round", s.round.ID(), "phase", s.round.Phase(), "bet", s.round.Bet())
	s.round = nil
	return true
}

// BeginBetting starts a new round. A pending result is stored first, and a
// balance below 1 is reset to the starting stake before any bet is taken.
// reset reports whether that happened.
func (s *Session) BeginBetting() (reset bool, err error) {
	if s.round != nil && s.round.Phase().InProgress() {
		return false, ErrRoundInProgress
	}
	if err := s.RetryPersist(); err != nil {
		return false, err
	}

	if s.balance < 1 {
		rec, err := s.ledger.ResetBalance(s.username)
		if err != nil {
			return false, fmt.Errorf("reset balance: %w", err)
		}
		s.logger.Info("Balance reset", "from", s.balance, "to", rec.Chips)
		s.balance = rec.Chips
		reset = true
	}

	s.round = game.NewRound(s.balance, s.cfg.roundOptions()...)
	s.recorded = false
	return reset, nil
}

// PlaceBet bets on the current round.
func (s *Session) PlaceBet(amount int64) (game.Snapshot, error) {
	return s.act(func(r *game.Round) error { return r.PlaceBet(amount) })
}

// Hit draws a card for the player.
func (s *Session) Hit() (game.Snapshot, error) {
	return s.act((*game.Round).Hit)
}

// Stand ends the player's turn and plays out the dealer.
func (s *Session) Stand() (game.Snapshot, error) {
	return s.act((*game.Round).Stand)
}

func (s *Session) act(op func(*game.Round) error) (game.Snapshot, error) {
	if s.round == nil {
		return s.Snapshot(), fmt.Errorf("%w: no round started", game.ErrIllegalTransition)
	}
	if err := op(s.round); err != nil {
		return s.round.Snapshot(), err
	}

	if outcome, ok := s.round.Outcome(); ok && !s.recorded {
		s.recorded = true
		s.pending = &outcome
		if err := s.RetryPersist(); err != nil {
			return s.round.Snapshot(), err
		}
	}
	return s.round.Snapshot(), nil
}

// RetryPersist stores a settled round the ledger previously failed to write.
// It is a no-op when nothing is pending.
func (s *Session) RetryPersist() error {
	if s.pending == nil {
		return nil
	}

	rec, err := s.ledger.ApplyRoundResult(s.username, *s.pending)
	if err != nil {
		s.logger.Error("Round result not stored", "outcome", s.pending.Kind, "delta", s.pending.ChipsDelta, "error", err)
		return err
	}
	s.pending = nil
	s.balance = rec.Chips
	return nil
}

// Snapshot returns the current round state. Before the first round it is an
// empty AwaitingBet snapshot.
func (s *Session) Snapshot() game.Snapshot {
	if s.round == nil {
		return game.Snapshot{Phase: game.AwaitingBet}
	}
	return s.round.Snapshot()
}

// Stats returns the stored record summary.
func (s *Session) Stats() (Stats, error) {
	rec, err := s.ledger.Lookup(s.username)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Username:    rec.Username,
		GamesPlayed: rec.GamesPlayed,
		GamesWon:    rec.GamesWon,
		WinRate:     rec.WinRate(),
		Chips:       rec.Chips,
	}, nil
}

// Rankings returns every player ordered by chips.
func (s *Session) Rankings() []ledger.Standing {
	return s.ledger.Rankings()
}
