package argonchain

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/argonchain/encoder"
	"github.com/MrEthical07/argonchain/kdf"
	"github.com/MrEthical07/argonchain/receipt"
)

// DefaultSalt is used when a caller supplies no salts.
const DefaultSalt = "argonchain"

// Config is the full generator configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Cost    CostConfig
	Policy  PolicyConfig
	Salts   []string
	Audit   AuditConfig
	Metrics MetricsConfig
	Receipt ReceiptConfig
}

/*
====================================
COST CONFIG
====================================
*/

// CostConfig holds the Argon2id tunables.
type CostConfig struct {
	Time        uint32
	Memory      uint32 // in KiB
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

/*
====================================
POLICY CONFIG
====================================
*/

// PolicyConfig describes the shape of every generated password.
type PolicyConfig struct {
	Length         int
	IncludeUpper   bool
	IncludeSpecial bool
	MinLower       int
	MinDigits      int
	MinUpper       int
	MinSpecial     int
	Special        string // empty uses encoder.DefaultSpecial
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// ReceiptConfig enables signed run receipts.
type ReceiptConfig struct {
	Enabled       bool
	SigningMethod string // "ed25519" (default) or "hs256"
	PrivateKey    []byte
	Issuer        string
	KeyID         string
	TTL           time.Duration
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	params := kdf.DefaultParams()
	return Config{
		Cost: CostConfig{
			Time:        params.Time,
			Memory:      params.Memory,
			Parallelism: params.Parallelism,
			KeyLength:   params.KeyLength,
			SaltLength:  params.SaltLength,
		},
		Policy: PolicyConfig{
			Length:    12,
			MinLower:  1,
			MinDigits: 1,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Receipt: ReceiptConfig{
			Enabled:       false,
			SigningMethod: string(receipt.MethodEd25519),
			Issuer:        "argonchain",
		},
	}
}

// DefaultConfig returns interactive-grade cost parameters and a 12-character
// lowercase+digit policy.
func DefaultConfig() Config {
	return defaultConfig()
}

// LegacyConfig mirrors the classic command line tool: 20 passes over ~1 GB,
// one lane.
func LegacyConfig() Config {
	cfg := defaultConfig()
	params := kdf.LegacyParams()
	cfg.Cost = CostConfig{
		Time:        params.Time,
		Memory:      params.Memory,
		Parallelism: params.Parallelism,
		KeyLength:   params.KeyLength,
		SaltLength:  params.SaltLength,
	}
	return cfg
}

// HighSecurityConfig raises the cost floor and requires all four classes.
func HighSecurityConfig() Config {
	cfg := defaultConfig()
	cfg.Cost.Time = 4
	cfg.Cost.Memory = 256 * 1024
	cfg.Cost.Parallelism = 4
	cfg.Policy = PolicyConfig{
		Length:         20,
		IncludeUpper:   true,
		IncludeSpecial: true,
		MinLower:       2,
		MinDigits:      2,
		MinUpper:       2,
		MinSpecial:     2,
	}
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Salts = cloneStrings(cfg.Salts)
	out.Receipt.PrivateKey = cloneBytes(cfg.Receipt.PrivateKey)
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Params converts the cost section to primitive parameters.
func (c CostConfig) Params() kdf.Params {
	return kdf.Params{
		Time:        c.Time,
		Memory:      c.Memory,
		Parallelism: c.Parallelism,
		KeyLength:   c.KeyLength,
		SaltLength:  c.SaltLength,
	}
}

// EncoderPolicy converts the policy section to an encoder policy.
func (p PolicyConfig) EncoderPolicy() encoder.Policy {
	return encoder.Policy{
		Length:         p.Length,
		IncludeUpper:   p.IncludeUpper,
		IncludeSpecial: p.IncludeSpecial,
		MinLower:       p.MinLower,
		MinDigits:      p.MinDigits,
		MinUpper:       p.MinUpper,
		MinSpecial:     p.MinSpecial,
		Special:        p.Special,
	}
}

// ResolvedSalts returns the salts a run will use, substituting DefaultSalt
// when none are configured.
func (c *Config) ResolvedSalts() []string {
	if len(c.Salts) == 0 {
		return []string{DefaultSalt}
	}
	return cloneStrings(c.Salts)
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks every section. Cost and salt problems wrap ErrInvalidConfig;
// policy problems wrap ErrInvalidPolicy.
func (c *Config) Validate() error {
	// Cost
	if err := c.Cost.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Salts
	for i, s := range c.Salts {
		if s == "" {
			return invalidConfig("salt %d is empty", i)
		}
	}

	// Policy
	if err := c.Policy.EncoderPolicy().Validate(); err != nil {
		return err
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return invalidConfig("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Receipt
	if c.Receipt.Enabled {
		switch receipt.SigningMethod(c.Receipt.SigningMethod) {
		case receipt.MethodEd25519, receipt.MethodHS256:
		default:
			return invalidConfig("unsupported receipt signing method %q", c.Receipt.SigningMethod)
		}
		if len(c.Receipt.PrivateKey) == 0 {
			return invalidConfig("Receipt requires PrivateKey")
		}
		if c.Receipt.TTL < 0 {
			return invalidConfig("Receipt TTL must be >= 0")
		}
	}

	return nil
}

// IsConfigError reports whether err came from configuration or policy validation.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrInvalidPolicy)
}
