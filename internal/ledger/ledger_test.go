package ledger

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

// flakyStore fails every Save while failing is set.
type flakyStore struct {
	*MemoryStore
	failing bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) Save(records []Record) error {
	if f.failing {
		return errDiskFull
	}
	return f.MemoryStore.Save(records)
}

func openMemory(t *testing.T, records ...Record) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(records...)
	l, err := Open(store)
	require.NoError(t, err)
	return l, store
}

func outcome(kind game.OutcomeKind, delta int64) game.Outcome {
	return game.Outcome{Kind: kind, Bet: 10, ChipsDelta: delta}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	l, store := openMemory(t)

	rec, err := l.Register("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, Record{Username: "alice", Credential: "hunter2", Chips: 500}, rec)
	assert.Equal(t, 1, store.Saves(), "registration is persisted immediately")

	got, err := l.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = l.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = l.Authenticate("bob", "hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	l, _ := openMemory(t, Record{Username: "alice", Credential: "x", Chips: 500})

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"taken", "alice", ErrUsernameTaken},
		{"sixteen characters", strings.Repeat("a", 16), ErrUsernameTooLong},
		{"fifteen characters", strings.Repeat("b", 15), nil},
		{"fifteen multibyte characters", strings.Repeat("블", 15), nil},
		{"sixteen multibyte characters", strings.Repeat("랙", 16), ErrUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Register(tt.username, "pw")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	l, _ := openMemory(t, Record{Username: "alice", Credential: "x", Chips: 320})

	rec, err := l.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(320), rec.Chips)

	_, err = l.Lookup("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyRoundResult(t *testing.T) {
	t.Parallel()

	l, _ := openMemory(t)
	_, err := l.Register("alice", "pw")
	require.NoError(t, err)

	results := []game.Outcome{
		outcome(game.PlayerBlackjack, 20),
		outcome(game.DealerBust, 10),
		outcome(game.PlayerWin, 10),
		outcome(game.Push, 0),
		outcome(game.DealerWin, -10),
		outcome(game.PlayerBust, -10),
	}
	var sum int64
	for _, o := range results {
		sum += o.ChipsDelta
		_, err := l.ApplyRoundResult("alice", o)
		require.NoError(t, err)
	}

	rec, err := l.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(6), rec.GamesPlayed)
	assert.Equal(t, int64(3), rec.GamesWon)
	assert.Equal(t, StartingStake+sum, rec.Chips)
	assert.InDelta(t, 50.0, rec.WinRate(), 0.001)

	_, err = l.ApplyRoundResult("nobody", results[0])
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResetBalance(t *testing.T) {
	t.Parallel()

	l, store := openMemory(t, Record{Username: "alice", Credential: "pw", GamesPlayed: 9, GamesWon: 2})

	rec, err := l.ResetBalance("alice")
	require.NoError(t, err)
	assert.Equal(t, StartingStake, rec.Chips)
	assert.Equal(t, int64(9), rec.GamesPlayed, "reset leaves statistics alone")

	stored, _ := store.Load()
	assert.Equal(t, StartingStake, stored[0].Chips)
}

func TestRankingsStable(t *testing.T) {
	t.Parallel()

	l, _ := openMemory(t,
		Record{Username: "a", Chips: 300},
		Record{Username: "b", Chips: 500},
		Record{Username: "c", Chips: 500},
		Record{Username: "d", Chips: 100},
	)

	got := l.Rankings()
	assert.Equal(t, []Standing{
		{Rank: 1, Username: "b", Chips: 500},
		{Rank: 2, Username: "c", Chips: 500},
		{Rank: 3, Username: "a", Chips: 300},
		{Rank: 4, Username: "d", Chips: 100},
	}, got)

	// Records keep insertion order regardless of rankings
	names := []string{}
	for _, rec := range l.Records() {
		names = append(names, rec.Username)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	store := &flakyStore{MemoryStore: NewMemoryStore(Record{Username: "alice", Credential: "pw", Chips: 500})}
	l, err := Open(store)
	require.NoError(t, err)

	store.failing = true

	_, err = l.ApplyRoundResult("alice", outcome(game.PlayerWin, 10))
	require.ErrorIs(t, err, ErrStorageIO)
	assert.ErrorContains(t, err, "disk full")

	_, err = l.Register("bob", "pw")
	require.ErrorIs(t, err, ErrStorageIO)
	_, err = l.Lookup("bob")
	require.ErrorIs(t, err, ErrNotFound, "failed registration is not visible")

	rec, err := l.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.GamesPlayed)
	assert.Equal(t, int64(500), rec.Chips)

	// Retrying after the store recovers applies the result exactly once
	store.failing = false
	rec, err = l.ApplyRoundResult("alice", outcome(game.PlayerWin, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.GamesPlayed)
	assert.Equal(t, int64(510), rec.Chips)
}

func TestOpenDuplicateUsernames(t *testing.T) {
	t.Parallel()

	l, _ := openMemory(t,
		Record{Username: "alice", Credential: "old", Chips: 100},
		Record{Username: "bob", Credential: "pw", Chips: 200},
		Record{Username: "alice", Credential: "new", Chips: 300},
	)

	records := l.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "new", records[0].Credential)
	assert.Equal(t, int64(300), records[0].Chips)
}

type brokenStore struct{ MemoryStore }

func (b *brokenStore) Load() ([]Record, error) { return nil, errDiskFull }

func TestOpenLoadFailure(t *testing.T) {
	t.Parallel()

	_, err := Open(&brokenStore{})
	require.ErrorIs(t, err, ErrStorageIO)
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	s, err := NewStore(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("", "")
	require.NoError(t, err)
	require.IsType(t, &CSVStore{}, s)
	assert.Equal(t, DefaultCSVPath, s.(*CSVStore).Path())

	_, err = NewStore("postgres", "")
	require.Error(t, err)
}
