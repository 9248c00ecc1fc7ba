package roundid

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()

	assert.Len(t, id, Length)
	assert.Equal(t, strings.ToLower(id), id)
	_, err := Parse(id)
	require.NoError(t, err)
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		require.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestIDsSortByCreation(t *testing.T) {
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, New())
		time.Sleep(2 * time.Millisecond)
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	assert.Equal(t, ids, sorted)
}

func TestParseRoundTrip(t *testing.T) {
	u := uuid.Must(uuid.NewV7())
	got, err := Parse(Encode(u))
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Time(New())
	require.NoError(t, err)

	assert.True(t, ts.After(before))
	assert.True(t, ts.Before(time.Now().Add(time.Second)))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too short", "abc"},
		{"too long", strings.Repeat("0", Length+1)},
		{"invalid character", "0123456789abcdefghjkmnpqru"},
		{"not version 7", Encode(uuid.New())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.id)
			assert.Error(t, err)
		})
	}
}
