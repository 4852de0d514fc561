package argonchain

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/argonchain/chain"
	"github.com/MrEthical07/argonchain/encoder"
	"github.com/MrEthical07/argonchain/receipt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Generator derives password sequences. It is safe for concurrent use: every
// run owns a fresh chain, and the shared pieces (metrics, audit) are
// concurrency-safe.
type Generator struct {
	config    Config
	salts     []string
	hasher    chain.Hasher
	encoder   *encoder.Encoder
	observers []Observer
	log       *logrus.Logger
	audit     *auditDispatcher
	metrics   *Metrics
	receipts  *receipt.Manager
	closed    atomic.Bool
	newRunID  func() string
}

// Close flushes pending audit events. Runs started afterwards fail.
func (g *Generator) Close() {
	if g == nil {
		return
	}
	g.closed.Store(true)
	if g.audit != nil {
		g.audit.Close()
	}
}

// AuditDropped returns how many audit events were dropped for backpressure.
func (g *Generator) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot returns a copy of the generator counters.
func (g *Generator) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

// Policy returns the encoder policy every password satisfies.
func (g *Generator) Policy() encoder.Policy {
	return g.encoder.Policy()
}

func (g *Generator) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

// Run derives n passwords from initial. observers are notified after the
// generator-wide observers, in order, once per password.
//
// On failure Run returns the partial Result together with a *RunError naming
// the failed iteration. Nothing is retried.
func (g *Generator) Run(ctx context.Context, n int, initial string, observers ...Observer) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if n < 1 {
		g.metricInc(MetricInvalidConfig)
		return nil, invalidConfig("iterations must be >= 1, got %d", n)
	}

	run, err := g.start(ctx, initial, n)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     run.id,
		Passwords: make([]string, 0, n),
	}

	for i := 0; i < n; i++ {
		it, err := run.next(ctx, observers)
		if err != nil {
			result.Elapsed = time.Since(run.started)
			g.finishFailed(ctx, run, n, len(result.Passwords), err)
			return result, err
		}
		result.Passwords = append(result.Passwords, it.Password)
	}

	result.Elapsed = time.Since(run.started)
	g.metricInc(MetricRunCompleted)

	if g.receipts != nil {
		token, err := g.issueReceipt(run.id, n)
		if err != nil {
			// The passwords are valid; only the receipt is missing.
			g.log.WithError(err).WithField("run_id", run.id).Warn("receipt signing failed")
		} else {
			result.Receipt = token
			g.metricInc(MetricReceiptIssued)
		}
	}

	g.log.WithFields(logrus.Fields{
		"run_id":     run.id,
		"iterations": n,
		"elapsed":    result.Elapsed.Round(time.Millisecond).String(),
	}).Info("run completed")

	g.audit.Emit(ctx, AuditEvent{
		EventType:  AuditRunCompleted,
		RunID:      run.id,
		Iterations: n,
		Completed:  n,
		Success:    true,
	})

	return result, nil
}

// Start opens a lazy, non-restartable iterator over the chain seeded by
// initial. The caller decides how many times to call Next.
func (g *Generator) Start(ctx context.Context, initial string) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return g.start(ctx, initial, 0)
}

func (g *Generator) start(ctx context.Context, initial string, n int) (*Run, error) {
	if g == nil {
		return nil, ErrGeneratorClosed
	}
	if g.closed.Load() {
		return nil, ErrGeneratorClosed
	}

	c, err := chain.New(initial, g.salts, g.hasher)
	if err != nil {
		g.metricInc(MetricInvalidConfig)
		return nil, err
	}

	run := &Run{
		g:       g,
		id:      g.newRunID(),
		chain:   c,
		total:   n,
		started: time.Now(),
	}

	g.metricInc(MetricRunStarted)
	g.log.WithFields(logrus.Fields{
		"run_id":     run.id,
		"iterations": n,
		"salts":      len(g.salts),
	}).Debug("run started")

	g.audit.Emit(ctx, AuditEvent{
		EventType:  AuditRunStarted,
		RunID:      run.id,
		Iterations: n,
		Success:    true,
		Metadata: map[string]string{
			"salts":       strconv.Itoa(len(g.salts)),
			"time_cost":   strconv.FormatUint(uint64(g.config.Cost.Time), 10),
			"memory_kib":  strconv.FormatUint(uint64(g.config.Cost.Memory), 10),
			"parallelism": strconv.FormatUint(uint64(g.config.Cost.Parallelism), 10),
		},
	})

	return run, nil
}

func (g *Generator) finishFailed(ctx context.Context, run *Run, n, completed int, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		g.metricInc(MetricRunCancelled)
	default:
		g.metricInc(MetricRunFailed)
	}

	g.log.WithError(err).WithFields(logrus.Fields{
		"run_id":    run.id,
		"completed": completed,
	}).Error("run failed")

	g.audit.Emit(ctx, AuditEvent{
		EventType:  AuditRunFailed,
		RunID:      run.id,
		Iterations: n,
		Completed:  completed,
		Success:    false,
		Error:      err.Error(),
	})
}

func (g *Generator) issueReceipt(runID string, n int) (string, error) {
	p := g.encoder.Policy()
	return g.receipts.Issue(receipt.Claims{
		RunID:          runID,
		Iterations:     n,
		SaltCount:      len(g.salts),
		TimeCost:       g.config.Cost.Time,
		MemoryKiB:      g.config.Cost.Memory,
		Parallelism:    g.config.Cost.Parallelism,
		KeyLength:      g.config.Cost.KeyLength,
		Length:         p.Length,
		IncludeUpper:   p.IncludeUpper,
		IncludeSpecial: p.IncludeSpecial,
		MinLower:       p.MinLower,
		MinDigits:      p.MinDigits,
		MinUpper:       p.MinUpper,
		MinSpecial:     p.MinSpecial,
	})
}

// Run is one derivation in progress. It belongs to a single goroutine.
type Run struct {
	g       *Generator
	id      string
	chain   *chain.Chain
	total   int
	started time.Time
	done    bool
}

// ID returns the run identifier used in logs, audit events and receipts.
func (r *Run) ID() string {
	return r.id
}

// Next derives the next password and notifies the generator's observers.
// After any error the run is finished and Next returns ErrRunFinished.
func (r *Run) Next(ctx context.Context) (Iteration, error) {
	return r.next(ctx, nil)
}

func (r *Run) next(ctx context.Context, extra []Observer) (Iteration, error) {
	if r.done {
		return Iteration{}, ErrRunFinished
	}
	if ctx == nil {
		ctx = context.Background()
	}
	g := r.g
	index := r.chain.Index()

	t0 := time.Now()
	step, err := r.chain.Next(ctx)
	elapsed := time.Since(t0)
	if err != nil {
		r.done = true
		if errors.Is(err, ErrHashFailure) {
			g.metricInc(MetricHashFailure)
		}
		return Iteration{}, &RunError{Index: index, Err: err}
	}
	if g.metrics != nil {
		g.metrics.Observe(MetricDeriveLatency, elapsed)
	}
	g.metricInc(MetricDigestDerived)

	password, err := g.encoder.Encode(step.Digest.Hash)
	if err != nil {
		r.done = true
		return Iteration{}, &RunError{Index: index, Err: err}
	}
	g.metricInc(MetricPasswordEncoded)

	it := Iteration{
		RunID:     r.id,
		Index:     step.Index,
		Total:     r.total,
		SaltIndex: step.SaltIndex,
		Password:  password,
		Elapsed:   elapsed,
	}

	g.log.WithFields(logrus.Fields{
		"run_id":     r.id,
		"iteration":  step.Index,
		"salt_index": step.SaltIndex,
		"elapsed":    elapsed.Round(time.Millisecond).String(),
	}).Debug("digest derived")

	for _, o := range g.observers {
		o.OnPassword(ctx, it)
	}
	for _, o := range extra {
		o.OnPassword(ctx, it)
	}

	return it, nil
}

func defaultRunID() string {
	return uuid.NewString()
}
