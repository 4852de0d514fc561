package argonchain

import (
	"fmt"
	"io"

	"github.com/MrEthical07/argonchain/encoder"
	"github.com/MrEthical07/argonchain/kdf"
	"github.com/MrEthical07/argonchain/receipt"
	"github.com/sirupsen/logrus"
)

// Builder assembles a Generator.
//
// Builder instances are intended to be configured during initialization and
// then discarded; Build may only be called once.
type Builder struct {
	config Config

	logger    *logrus.Logger
	auditSink AuditSink
	observers []Observer
	runID     func() string

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSalts sets the rotation salts in order.
func (b *Builder) WithSalts(salts ...string) *Builder {
	b.config.Salts = cloneStrings(salts)
	return b
}

// WithLogger routes generator logs to l. Without it the generator logs
// nothing.
func (b *Builder) WithLogger(l *logrus.Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink enables audit delivery to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithObserver adds an observer notified for every password of every run.
func (b *Builder) WithObserver(o Observer) *Builder {
	if o != nil {
		b.observers = append(b.observers, o)
	}
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Generator. All
// configuration errors surface here, before any hashing.
func (b *Builder) Build() (*Generator, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := kdf.NewArgon2(cfg.Cost.Params())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	enc, err := encoder.New(cfg.Policy.EncoderPolicy())
	if err != nil {
		return nil, err
	}

	var receipts *receipt.Manager
	if cfg.Receipt.Enabled {
		receipts, err = receipt.NewManager(receipt.Config{
			SigningMethod: receipt.SigningMethod(cfg.Receipt.SigningMethod),
			PrivateKey:    cfg.Receipt.PrivateKey,
			Issuer:        cfg.Receipt.Issuer,
			KeyID:         cfg.Receipt.KeyID,
			TTL:           cfg.Receipt.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: receipt: %v", ErrInvalidConfig, err)
		}
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	runID := b.runID
	if runID == nil {
		runID = defaultRunID
	}

	b.built = true

	return &Generator{
		config:    cfg,
		salts:     cfg.ResolvedSalts(),
		hasher:    hasher,
		encoder:   enc,
		observers: append([]Observer(nil), b.observers...),
		log:       logger,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		receipts:  receipts,
		newRunID:  runID,
	}, nil
}
