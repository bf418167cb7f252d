// Package hasher wraps bcrypt behind the interface the auth usecase
// needs: salted adaptive hashing plus a dummy verification used to keep
// login timing flat for unknown emails.
package hasher

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"authgate/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Bcrypt struct {
	cost      int
	dummyHash []byte
}

// NewBcrypt validates the cost and precomputes the dummy descriptor.
// The dummy is the hash of a random value that is discarded immediately,
// so VerifyDummy can never succeed; it exists only to make "unknown
// email" burn the same work as "wrong password".
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("generate dummy preimage: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy preimage: %w", err)
	}

	return &Bcrypt{cost: cost, dummyHash: dummy}, nil
}

// Hash returns the bcrypt descriptor for plaintext: algorithm tag, cost,
// fresh random salt and digest in one self-describing string.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored descriptor. A
// malformed descriptor reads as a plain mismatch; a corrupt record must
// not be distinguishable from a wrong password by the caller.
func (b *Bcrypt) Verify(plaintext, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
}

// VerifyDummy runs a full comparison against the dummy descriptor and
// always fails. Login calls this when the email is unknown.
func (b *Bcrypt) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(b.dummyHash, []byte(plaintext))
}
