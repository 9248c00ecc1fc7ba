// Package roundid generates compact, time-ordered round identifiers: a
// UUIDv7 encoded as 26 lowercase base32 characters (Crockford alphabet).
// IDs sort lexicographically by creation time.
package roundid

import (
	"encoding/base32"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Crockford's base32, no I, L, O or U
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// New returns a fresh round ID.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// Encode renders a UUID in round ID form.
func Encode(u uuid.UUID) string {
	return encoding.EncodeToString(u[:])
}

// Parse decodes a round ID back into its UUIDv7.
func Parse(id string) (uuid.UUID, error) {
	if len(id) != Length {
		return uuid.Nil, fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	raw, err := encoding.DecodeString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid round ID %q: %w", id, err)
	}

	u, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, err
	}
	if u.Version() != 7 {
		return uuid.Nil, fmt.Errorf("round ID %q is not a UUIDv7", id)
	}
	return u, nil
}

// Time returns when the ID was generated, to the millisecond.
func Time(id string) (time.Time, error) {
	u, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	// The first 48 bits are milliseconds since the Unix epoch
	var ms int64
	for _, b := range u[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms), nil
}
