package postgres

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// InsertIfAbsent relies on the unique index on credentials.email: the
// existence check and the insert are a single statement, so concurrent
// registrations for one email collapse to one winner. No SELECT first.
func (r *CredentialRepository) InsertIfAbsent(ctx context.Context, email, passwordHash string) (*domain.Credential, error) {
	query := `
		INSERT INTO credentials (email, password_hash)
		VALUES ($1, $2)
		RETURNING email, password_hash, created_at`

	row := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email), passwordHash)

	created, err := scanCredential(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *CredentialRepository) FetchByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query := `SELECT email, password_hash, created_at FROM credentials WHERE email = $1`

	row := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email))
	return scanCredential(row)
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var c domain.Credential
	err := row.Scan(&c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	return &c, nil
}
