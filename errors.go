package argonchain

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/argonchain/chain"
	"github.com/MrEthical07/argonchain/encoder"
)

var (
	// ErrInvalidConfig reports non-positive or primitive-rejected cost
	// parameters, an empty salt, an empty initial value or a non-positive
	// iteration count. Nothing has been hashed when it is returned.
	ErrInvalidConfig = chain.ErrInvalidConfig
	// ErrInvalidPolicy reports a character policy that violates its invariants.
	ErrInvalidPolicy = encoder.ErrInvalidPolicy
	// ErrHashFailure reports a primitive failure during a run. It is always
	// wrapped in a [*RunError] carrying the failed iteration index.
	ErrHashFailure = chain.ErrHashFailure
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrGeneratorClosed is returned by runs started after Close.
	ErrGeneratorClosed = errors.New("generator closed")
	// ErrRunFinished is returned by Run.Next after the iterator hit an error.
	ErrRunFinished = errors.New("run already finished")
)

// RunError wraps the failure of iteration Index. Passwords delivered before
// the failure stay valid; nothing from Index onward is produced.
type RunError struct {
	Index int
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("argonchain: iteration %d: %v", e.Index, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
