package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the bcrypt work factor used for new hashes.
const DefaultCost = bcrypt.DefaultCost

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash returns an encoded hash embedding algorithm, cost and salt.
	Hash(ctx context.Context, password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash is a
	// mismatch, not an error; the error is reserved for failures to compute.
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt. Computations run on
// their own goroutine, at most N at a time, and are abandoned after the
// configured timeout. bcrypt itself cannot be interrupted, so an abandoned
// computation holds its slot until it returns.
type BcryptHasher struct {
	cost    int
	timeout time.Duration
	sem     *semaphore.Weighted
}

type HasherOption func(*BcryptHasher)

// WithCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithCost(cost int) HasherOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

func WithTimeout(d time.Duration) HasherOption {
	return func(h *BcryptHasher) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithConcurrency limits how many hash computations run at once.
func WithConcurrency(n int) HasherOption {
	return func(h *BcryptHasher) {
		if n > 0 {
			h.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

func NewBcryptHasher(opts ...HasherOption) *BcryptHasher {
	h := &BcryptHasher{
		cost:    DefaultCost,
		timeout: 5 * time.Second,
		sem:     semaphore.NewWeighted(4),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash salts and hashes password. Any failure (RNG, a password over 72
// bytes, timeout) is wrapped in common.ErrHashing.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	var hash []byte
	err := h.run(ctx, func() error {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrHashing, err)
	}
	return string(hash), nil
}

// Verify compares password with hash. A timeout, a cancelled ctx or no free
// slot before the deadline is wrapped in common.ErrHashing.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	var match bool
	err := h.run(ctx, func() error {
		// mismatch and malformed hash both land here as a plain false
		match = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrHashing, err)
	}
	return match, nil
}

// Cost reports the work factor encoded in hash.
func Cost(hash string) (int, error) {
	return bcrypt.Cost([]byte(hash))
}

func (h *BcryptHasher) run(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	// buffered so an abandoned computation can still finish and release
	done := make(chan error, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
