package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// Client-facing failures. Handlers map these to fixed status+message
	// pairs; anything else becomes a generic 500.
	ErrInvalidInput       = errors.New("email and password are required")
	ErrAlreadyExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCredentialNotFound is the store-level "unknown email" result. It
	// never leaves the usecase layer: login folds it into
	// ErrInvalidCredentials so callers cannot enumerate accounts.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrStorageUnavailable replaces raw collaborator errors at the
	// usecase boundary. The underlying cause is logged, never returned.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// Credential is one registered identity. Immutable after creation;
// there are no update or delete paths in this service.
type Credential struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail trims and case-folds an email so that all lookups and
// inserts key on the same form. "Foo@Bar.com " and "foo@bar.com" collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
