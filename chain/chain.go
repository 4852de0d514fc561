package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/argonchain/kdf"
)

var (
	// ErrInvalidConfig is returned by [New] when the chain cannot be started.
	ErrInvalidConfig = errors.New("invalid chain configuration")
	// ErrHashFailure marks a primitive failure at some iteration; see [StepError].
	ErrHashFailure = errors.New("hash failure")
	// ErrChainFailed is returned by Next after an earlier iteration failed.
	ErrChainFailed = errors.New("chain already failed")
)

// Hasher is the memory-hard keyed hash consumed by the chain.
type Hasher interface {
	Derive(secret, salt []byte) (kdf.Digest, error)
}

// Step is the outcome of one iteration.
type Step struct {
	Index     int
	SaltIndex int
	Digest    kdf.Digest
}

// StepError reports which iteration failed.
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("iteration %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrHashFailure, e.Err}
}

// Chain holds the evolving derivation state.
type Chain struct {
	hasher  Hasher
	salts   [][]byte
	current []byte
	index   int
	failed  bool
}

// New starts a chain at initial. salts must be non-empty and contain no empty entries.
func New(initial string, salts []string, h Hasher) (*Chain, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil hasher", ErrInvalidConfig)
	}
	if initial == "" {
		return nil, fmt.Errorf("%w: initial value must not be empty", ErrInvalidConfig)
	}
	if len(salts) == 0 {
		return nil, fmt.Errorf("%w: at least one salt is required", ErrInvalidConfig)
	}

	copied := make([][]byte, len(salts))
	for i, s := range salts {
		if s == "" {
			return nil, fmt.Errorf("%w: salt %d is empty", ErrInvalidConfig, i)
		}
		copied[i] = []byte(s)
	}

	return &Chain{
		hasher:  h,
		salts:   copied,
		current: []byte(initial),
	}, nil
}

// Index returns the index the next call to Next will compute.
func (c *Chain) Index() int {
	return c.index
}

// Salts returns the rotation length.
func (c *Chain) Salts() int {
	return len(c.salts)
}

// Next computes the next digest and advances the chain.
func (c *Chain) Next(ctx context.Context) (Step, error) {
	if c.failed {
		return Step{}, ErrChainFailed
	}
	if err := ctx.Err(); err != nil {
		return Step{}, err
	}

	saltIndex := c.index % len(c.salts)
	digest, err := c.hasher.Derive(c.current, c.salts[saltIndex])
	if err != nil {
		c.failed = true
		return Step{}, &StepError{Index: c.index, Err: err}
	}

	step := Step{Index: c.index, SaltIndex: saltIndex, Digest: digest}
	c.current = []byte(digest.Encode())
	c.index++

	return step, nil
}
