package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestCSVStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewCSVStore(filepath.Join(t.TempDir(), "user_data.csv"))
	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVStoreLegacyFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user_data.csv")
	legacy := "alice,pw1,3,1,510.0\r\nbob,pw2,0,0,500\r\n\"c,d\",pw3,12,7,1020.0\r\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	records, err := NewCSVStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Username: "alice", Credential: "pw1", GamesPlayed: 3, GamesWon: 1, Chips: 510},
		{Username: "bob", Credential: "pw2", GamesPlayed: 0, GamesWon: 0, Chips: 500},
		{Username: "c,d", Credential: "pw3", GamesPlayed: 12, GamesWon: 7, Chips: 1020},
	}, records)
}

func TestCSVStoreRejectsMalformedRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"missing field", "alice,pw,0,0\r\n", "expected 5 fields"},
		{"bad number", "alice,pw,zero,0,500\r\n", "games played"},
		{"bad balance", "alice,pw,0,0,lots\r\n", "chip balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "user_data.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewCSVStore(path).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestCSVStoreWritesOriginalFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user_data.csv")
	store := NewCSVStore(path)
	require.NoError(t, store.Save([]Record{
		{Username: "alice", Credential: "pw1", GamesPlayed: 3, GamesWon: 1, Chips: 510},
		{Username: "bob", Credential: "pw2", Chips: 500},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice,pw1,3,1,510\r\nbob,pw2,0,0,500\r\n", string(data))
}

func TestCSVLedgerReloadReproducesRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user_data.csv")

	l, err := Open(NewCSVStore(path))
	require.NoError(t, err)
	_, err = l.Register("alice", "pw1")
	require.NoError(t, err)
	_, err = l.Register("bob", "pw2")
	require.NoError(t, err)
	_, err = l.ApplyRoundResult("alice", game.Outcome{Kind: game.PlayerBlackjack, ChipsDelta: 40})
	require.NoError(t, err)
	_, err = l.ApplyRoundResult("bob", game.Outcome{Kind: game.DealerWin, ChipsDelta: -25})
	require.NoError(t, err)

	reopened, err := Open(NewCSVStore(path))
	require.NoError(t, err)
	assert.Equal(t, l.Records(), reopened.Records())
	assert.Equal(t, l.Rankings(), reopened.Rankings())
}

func TestCSVStoreSaveFailure(t *testing.T) {
	t.Parallel()

	store := NewCSVStore(filepath.Join(t.TempDir(), "missing", "user_data.csv"))
	l, err := Open(store)
	require.NoError(t, err)

	_, err = l.Register("alice", "pw")
	require.ErrorIs(t, err, ErrStorageIO)
	assert.Empty(t, l.Records())
}
