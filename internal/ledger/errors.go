package ledger

import "errors"

var (
	// ErrUsernameTooLong indicates a username over MaxUsernameLen characters.
	ErrUsernameTooLong = errors.New("ledger: username too long")

	// ErrUsernameTaken indicates a registration for an existing username.
	ErrUsernameTaken = errors.New("ledger: username taken")

	// ErrInvalidCredentials indicates an unknown username or a credential
	// mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("ledger: invalid credentials")

	// ErrNotFound indicates no record exists for the username.
	ErrNotFound = errors.New("ledger: not found")

	// ErrStorageIO indicates the durable store could not be read or written.
	// A failed write leaves the ledger unchanged and may be retried.
	ErrStorageIO = errors.New("ledger: storage failure")
)
