package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"authgate/internal/domain"
	"authgate/internal/email"
	"authgate/internal/metrics"
	"authgate/internal/repository"
)

// passwordHasher is the subset of hasher.Pool the usecase needs.
type passwordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, encoded string) (bool, error)
	VerifyDummy(ctx context.Context, plaintext string) error
}

// tokenIssuer is the subset of token.Issuer the usecase needs.
type tokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthUsecase struct {
	creds   repository.CredentialRepository
	hasher  passwordHasher
	tokens  tokenIssuer
	welcome email.Sender
	logger  *slog.Logger
}

func NewAuthUsecase(creds repository.CredentialRepository, hasher passwordHasher, tokens tokenIssuer, welcome email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		creds:   creds,
		hasher:  hasher,
		tokens:  tokens,
		welcome: welcome,
		logger:  logger.With("component", "auth_usecase"),
	}
}

// Register creates the credential for email exactly once. The password
// is hashed before the uniqueness check so that registration latency
// does not reveal whether the email is already taken.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password string) error {
	if strings.TrimSpace(emailAddr) == "" || password == "" {
		return domain.ErrInvalidInput
	}
	normalized := domain.NormalizeEmail(emailAddr)

	passwordHash, err := u.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || isCtxErr(err) {
			return err
		}
		u.logger.ErrorContext(ctx, "hash password", "error", err)
		return domain.ErrStorageUnavailable
	}

	if _, err := u.creds.InsertIfAbsent(ctx, normalized, passwordHash); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return domain.ErrAlreadyExists
		}
		if isCtxErr(err) {
			return err
		}
		u.logger.ErrorContext(ctx, "insert credential", "error", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return domain.ErrStorageUnavailable
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	// Best effort; a failed welcome email never fails the registration.
	if err := u.welcome.Send(ctx, normalized, welcomeSubject, welcomeBody); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "error", err)
	}
	return nil
}

// Login verifies the presented password and returns a signed bearer
// token on success. Unknown email and wrong password are deliberately
// indistinguishable: both burn one full hash comparison and both come
// back as ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	if strings.TrimSpace(emailAddr) == "" || password == "" {
		return "", domain.ErrInvalidInput
	}
	normalized := domain.NormalizeEmail(emailAddr)

	cred, err := u.creds.FetchByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			if err := u.hasher.VerifyDummy(ctx, password); err != nil {
				return "", err
			}
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return "", domain.ErrInvalidCredentials
		}
		if isCtxErr(err) {
			return "", err
		}
		u.logger.ErrorContext(ctx, "fetch credential", "error", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", domain.ErrStorageUnavailable
	}

	ok, err := u.hasher.Verify(ctx, password, cred.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.Issue(cred.Email)
	if err != nil {
		u.logger.ErrorContext(ctx, "issue token", "error", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("issued").Inc()
	return signed, nil
}

// isCtxErr reports whether err is the caller's own timeout or cancel.
// Those propagate as-is instead of being masked as storage failures.
func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

const (
	welcomeSubject = "Welcome!"
	welcomeBody    = `<p>Your account has been created. You can now sign in with your email and password.</p>`
)
