package argonchain

import (
	"context"
	"time"
)

// Iteration is what observers see for each produced password.
type Iteration struct {
	RunID     string
	Index     int
	Total     int // zero when the run length is not known up front
	SaltIndex int
	Password  string
	Elapsed   time.Duration
}

// Observer consumes passwords as they are produced. Implementations drive
// progress bars, per-iteration logging and summaries; the generator never
// depends on what they do.
type Observer interface {
	OnPassword(ctx context.Context, it Iteration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, it Iteration)

func (f ObserverFunc) OnPassword(ctx context.Context, it Iteration) {
	f(ctx, it)
}

// Result is the outcome of Generator.Run. On failure it holds the passwords
// delivered before the failed iteration.
type Result struct {
	RunID     string
	Passwords []string
	Elapsed   time.Duration
	// Receipt is a signed token describing the run; empty unless receipts are enabled.
	Receipt string
}

// Final returns the last password, or "" when none was produced.
func (r *Result) Final() string {
	if r == nil || len(r.Passwords) == 0 {
		return ""
	}
	return r.Passwords[len(r.Passwords)-1]
}
