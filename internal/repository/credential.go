package repository

import (
	"context"

	"authgate/internal/domain"
)

// CredentialRepository is the persistence boundary for credentials,
// keyed by normalized email.
type CredentialRepository interface {
	// InsertIfAbsent atomically creates the credential. The uniqueness
	// check and the insert are one operation at the storage layer; two
	// concurrent calls for the same email yield exactly one success and
	// one domain.ErrAlreadyExists.
	InsertIfAbsent(ctx context.Context, email, passwordHash string) (*domain.Credential, error)

	// FetchByEmail returns the stored credential, or
	// domain.ErrCredentialNotFound for an unknown email.
	FetchByEmail(ctx context.Context, email string) (*domain.Credential, error)
}
