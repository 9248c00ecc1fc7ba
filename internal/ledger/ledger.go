// Package ledger is the durable store of player records: credentials, game
// counts and chip balances. Every mutation is written through to the Store
// before it becomes visible.
package ledger

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

const (
	// StartingStake is the balance of a new player and the reset balance.
	StartingStake int64 = 500

	// MaxUsernameLen is counted in characters, not bytes.
	MaxUsernameLen = 15
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. Default discards.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Ledger is the single source of truth for player records. It is safe for
// concurrent use; mutations are serialised.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	records []Record       // insertion order
	index   map[string]int // username -> position in records
	logger  *log.Logger
}

// Open reads every record from store.
func Open(store Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:  store,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithPrefix("ledger")

	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrStorageIO, err)
	}

	l.index = make(map[string]int, len(loaded))
	for _, rec := range loaded {
		// A repeated username keeps its first position and its last values
		if i, ok := l.index[rec.Username]; ok {
			l.logger.Warn("Duplicate username in store", "username", rec.Username)
			l.records[i] = rec
			continue
		}
		l.index[rec.Username] = len(l.records)
		l.records = append(l.records, rec)
	}

	l.logger.Debug("Ledger opened", "records", len(l.records))
	return l, nil
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Lookup returns the record for username.
func (l *Ledger) Lookup(username string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[username]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	return l.records[i], nil
}

// Register creates a record with no games played and StartingStake chips.
func (l *Ledger) Register(username, credential string) (Record, error) {
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return Record{}, fmt.Errorf("%w: %d characters, max %d",
			ErrUsernameTooLong, utf8.RuneCountInString(username), MaxUsernameLen)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.index[username]; ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
	}

	rec := Record{
		Username:   username,
		Credential: credential,
		Chips:      StartingStake,
	}
	next := append(slices.Clone(l.records), rec)
	if err := l.persist(next); err != nil {
		return Record{}, err
	}
	l.index[username] = len(l.records)
	l.records = next

	l.logger.Info("Player registered", "username", username)
	return rec, nil
}

// Authenticate returns the record when credential matches.
func (l *Ledger) Authenticate(username, credential string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[username]
	if !ok || l.records[i].Credential != credential {
		l.logger.Debug("Authentication failed", "username", username)
		return Record{}, ErrInvalidCredentials
	}
	return l.records[i], nil
}

// ApplyRoundResult counts a settled round: games played always, games won
// when the outcome is a win, and the chip delta.
func (l *Ledger) ApplyRoundResult(username string, outcome game.Outcome) (Record, error) {
	return l.update(username, func(rec *Record) {
		rec.GamesPlayed++
		if outcome.Won() {
			rec.GamesWon++
		}
		rec.Chips += outcome.ChipsDelta
	})
}

// ResetBalance restores the balance to StartingStake.
func (l *Ledger) ResetBalance(username string) (Record, error) {
	return l.update(username, func(rec *Record) {
		rec.Chips = StartingStake
	})
}

// Rankings orders players by chips, highest first. Equal balances keep their
// registration order.
func (l *Ledger) Rankings() []Standing {
	l.mu.Lock()
	standings := make([]Standing, len(l.records))
	for i, rec := range l.records {
		standings[i] = Standing{Username: rec.Username, Chips: rec.Chips}
	}
	l.mu.Unlock()

	slices.SortStableFunc(standings, func(a, b Standing) int {
		return cmp.Compare(b.Chips, a.Chips)
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// Records returns a copy of every record in insertion order.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

func (l *Ledger) update(username string, mutate func(*Record)) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[username]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}

	next := slices.Clone(l.records)
	mutate(&next[i])
	if err := l.persist(next); err != nil {
		return Record{}, err
	}
	l.records = next

	rec := next[i]
	l.logger.Debug("Record updated",
		"username", username,
		"played", rec.GamesPlayed,
		"won", rec.GamesWon,
		"chips", rec.Chips)
	return rec, nil
}

// persist must be called with mu held.
func (l *Ledger) persist(records []Record) error {
	if err := l.store.Save(records); err != nil {
		l.logger.Error("Failed to persist ledger", "error", err)
		return fmt.Errorf("%w: save: %v", ErrStorageIO, err)
	}
	return nil
}
