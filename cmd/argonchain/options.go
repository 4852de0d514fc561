package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MrEthical07/argonchain"
	"github.com/MrEthical07/argonchain/kdf"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage error")

// options holds every generate flag. Fields tagged with a profile key can
// also come from the profile file or ARGONCHAIN_* variables.
type options struct {
	initial    string
	iterations int
	salts      []string
	saltFile   string

	uppercase  bool
	special    bool
	specialSet string
	length     int
	minLower   int
	minDigits  int
	minUpper   int
	minSpecial int

	timeCost    uint32
	memoryCost  uint32
	parallelism uint8

	summary    bool
	debugLevel int
	metrics    bool

	profile       string
	receiptKey    string
	receiptMethod string
	receiptTTL    time.Duration
	auditRedis    string
	auditStream   string
}

func defaultOptions() *options {
	legacy := kdf.LegacyParams()
	return &options{
		length:        12,
		minLower:      1,
		minDigits:     1,
		minUpper:      1,
		minSpecial:    1,
		timeCost:      legacy.Time,
		memoryCost:    legacy.Memory,
		parallelism:   legacy.Parallelism,
		receiptMethod: "ed25519",
		auditStream:   "argonchain:audit",
	}
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.initial, "initial", "i", "", "Initial string (prompted when omitted)")
	f.IntVarP(&o.iterations, "iterations", "n", 0, "Number of passwords to derive")
	f.StringArrayVarP(&o.salts, "salts", "s", nil, "Salt to rotate through; repeat for more, in order")
	f.StringVarP(&o.saltFile, "salt-file", "c", "", "File with one salt per line")

	f.BoolVarP(&o.uppercase, "uppercase", "u", o.uppercase, "Include uppercase letters")
	f.BoolVarP(&o.special, "special", "S", o.special, "Include special characters")
	f.StringVar(&o.specialSet, "special-set", o.specialSet, "Override the special character alphabet")
	f.IntVarP(&o.length, "length", "l", o.length, "Password length")
	f.IntVar(&o.minLower, "min-lower", o.minLower, "Minimum lowercase letters")
	f.IntVar(&o.minDigits, "min-digits", o.minDigits, "Minimum digits")
	f.IntVar(&o.minUpper, "min-upper", o.minUpper, "Minimum uppercase letters (with --uppercase)")
	f.IntVar(&o.minSpecial, "min-special", o.minSpecial, "Minimum special characters (with --special)")

	f.Uint32Var(&o.timeCost, "time-cost", o.timeCost, "Argon2 time cost")
	f.Uint32Var(&o.memoryCost, "memory-cost", o.memoryCost, "Argon2 memory cost in KiB")
	f.Uint8Var(&o.parallelism, "parallelism", o.parallelism, "Argon2 parallelism")

	f.BoolVar(&o.summary, "summary", o.summary, "Print a summary table instead of the bare password")
	f.IntVar(&o.debugLevel, "debug-level", o.debugLevel, "0 (quiet), 1 (detailed), 2 (one line per password)")
	f.BoolVar(&o.metrics, "metrics", o.metrics, "Print Prometheus metrics to stderr after the run")

	f.StringVar(&o.profile, "profile", "", "YAML profile with default flag values")
	f.StringVar(&o.receiptKey, "receipt-key", o.receiptKey, "Sign a run receipt with this key file")
	f.StringVar(&o.receiptMethod, "receipt-method", o.receiptMethod, "Receipt signing method (ed25519|hs256)")
	f.DurationVar(&o.receiptTTL, "receipt-ttl", o.receiptTTL, "Receipt lifetime (0 never expires)")
	f.StringVar(&o.auditRedis, "audit-redis", o.auditRedis, "Redis address for the audit stream")
	f.StringVar(&o.auditStream, "audit-stream", o.auditStream, "Redis stream key for audit events")

	_ = cmd.MarkFlagRequired("iterations")
	cmd.MarkFlagsMutuallyExclusive("salts", "salt-file")
}

func (o *options) validate() error {
	if o.iterations < 1 {
		return fmt.Errorf("%w: --iterations must be a positive integer", errUsage)
	}
	if o.length <= 0 {
		return fmt.Errorf("%w: password length must be a positive integer", errUsage)
	}
	if o.debugLevel < 0 || o.debugLevel > 2 {
		return fmt.Errorf("%w: --debug-level must be 0, 1 or 2", errUsage)
	}
	return nil
}

// policy builds the character policy. Minimums of classes that are switched
// off are ignored rather than rejected.
func (o *options) policy() argonchain.PolicyConfig {
	p := argonchain.PolicyConfig{
		Length:         o.length,
		IncludeUpper:   o.uppercase,
		IncludeSpecial: o.special,
		MinLower:       o.minLower,
		MinDigits:      o.minDigits,
		Special:        o.specialSet,
	}
	if o.uppercase {
		p.MinUpper = o.minUpper
	}
	if o.special {
		p.MinSpecial = o.minSpecial
	}
	return p
}

func (o *options) config(salts []string) (argonchain.Config, error) {
	cfg := argonchain.LegacyConfig()
	cfg.Cost.Time = o.timeCost
	cfg.Cost.Memory = o.memoryCost
	cfg.Cost.Parallelism = o.parallelism
	cfg.Policy = o.policy()
	cfg.Salts = salts

	if o.receiptKey != "" {
		key, err := os.ReadFile(o.receiptKey)
		if err != nil {
			return cfg, fmt.Errorf("read receipt key: %w", err)
		}
		cfg.Receipt = argonchain.ReceiptConfig{
			Enabled:       true,
			SigningMethod: o.receiptMethod,
			PrivateKey:    key,
			Issuer:        "argonchain",
			TTL:           o.receiptTTL,
		}
	}
	if o.auditRedis != "" {
		cfg.Audit = argonchain.AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: false,
		}
	}
	cfg.Metrics = argonchain.MetricsConfig{
		Enabled:                 o.metrics,
		EnableLatencyHistograms: o.metrics,
	}

	return cfg, nil
}
