package hasher

import (
	"context"
	"time"

	"authgate/internal/metrics"
)

// Hasher is the synchronous hashing contract Pool wraps. *Bcrypt is
// the production implementation.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
	VerifyDummy(plaintext string)
}

// Pool bounds how many hash computations run at once so a burst of
// register/login traffic cannot monopolize every CPU. Slots are a
// buffered channel; acquiring one honors the caller's context.
type Pool struct {
	inner Hasher
	sem   chan struct{}
}

func NewPool(inner Hasher, size int) *Pool {
	return &Pool{inner: inner, sem: make(chan struct{}, size)}
}

func (p *Pool) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() { <-p.sem }

func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()

	start := time.Now()
	hash, err := p.inner.Hash(plaintext)
	metrics.HashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	return hash, err
}

func (p *Pool) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.release()

	start := time.Now()
	ok := p.inner.Verify(plaintext, encoded)
	metrics.HashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return ok, nil
}

// VerifyDummy burns one comparison-shaped unit of work. It goes through
// the same slot accounting as a real verify so the not-found path is
// indistinguishable under load as well.
func (p *Pool) VerifyDummy(ctx context.Context, plaintext string) error {
	if err := p.acquire(ctx); err != nil {
		return err
	}
	defer p.release()

	start := time.Now()
	p.inner.VerifyDummy(plaintext)
	metrics.HashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return nil
}
