package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// profileKeys are the flags a profile file or ARGONCHAIN_* variable may set.
// The initial value and salts are never read from a profile.
var profileKeys = []string{
	"uppercase", "special", "special-set", "length",
	"min-lower", "min-digits", "min-upper", "min-special",
	"time-cost", "memory-cost", "parallelism",
	"summary", "debug-level", "metrics",
	"salt-file", "receipt-key", "receipt-method", "receipt-ttl",
	"audit-redis", "audit-stream",
}

// applyProfile layers flag values over the environment over the profile over
// flag defaults.
func applyProfile(cmd *cobra.Command, o *options) error {
	v := viper.New()
	v.SetEnvPrefix("ARGONCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.profile != "" {
		v.SetConfigFile(o.profile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read profile %s: %w", o.profile, err)
		}
	}

	for _, key := range profileKeys {
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			return fmt.Errorf("profile key %q has no flag", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}

	parallelism := v.GetUint("parallelism")
	if parallelism > 255 {
		return fmt.Errorf("%w: parallelism %d out of range", errUsage, parallelism)
	}

	o.uppercase = v.GetBool("uppercase")
	o.special = v.GetBool("special")
	o.specialSet = v.GetString("special-set")
	o.length = v.GetInt("length")
	o.minLower = v.GetInt("min-lower")
	o.minDigits = v.GetInt("min-digits")
	o.minUpper = v.GetInt("min-upper")
	o.minSpecial = v.GetInt("min-special")
	o.timeCost = v.GetUint32("time-cost")
	o.memoryCost = v.GetUint32("memory-cost")
	o.parallelism = uint8(parallelism)
	o.summary = v.GetBool("summary")
	o.debugLevel = v.GetInt("debug-level")
	o.metrics = v.GetBool("metrics")
	o.receiptKey = v.GetString("receipt-key")
	o.receiptMethod = v.GetString("receipt-method")
	o.receiptTTL = v.GetDuration("receipt-ttl")
	o.auditRedis = v.GetString("audit-redis")
	o.auditStream = v.GetString("audit-stream")
	if !cmd.Flags().Changed("salts") {
		o.saltFile = v.GetString("salt-file")
	}

	return nil
}

// profileFile is the on-disk shape written by "profile init".
type profileFile struct {
	TimeCost      uint32        `yaml:"time-cost"`
	MemoryCost    uint32        `yaml:"memory-cost"`
	Parallelism   uint8         `yaml:"parallelism"`
	Length        int           `yaml:"length"`
	Uppercase     bool          `yaml:"uppercase"`
	Special       bool          `yaml:"special"`
	SpecialSet    string        `yaml:"special-set,omitempty"`
	MinLower      int           `yaml:"min-lower"`
	MinDigits     int           `yaml:"min-digits"`
	MinUpper      int           `yaml:"min-upper"`
	MinSpecial    int           `yaml:"min-special"`
	Summary       bool          `yaml:"summary"`
	DebugLevel    int           `yaml:"debug-level"`
	SaltFile      string        `yaml:"salt-file,omitempty"`
	ReceiptKey    string        `yaml:"receipt-key,omitempty"`
	ReceiptMethod string        `yaml:"receipt-method"`
	ReceiptTTL    time.Duration `yaml:"receipt-ttl,omitempty"`
	AuditRedis    string        `yaml:"audit-redis,omitempty"`
	AuditStream   string        `yaml:"audit-stream"`
}

func profileFromOptions(o *options) profileFile {
	return profileFile{
		TimeCost:      o.timeCost,
		MemoryCost:    o.memoryCost,
		Parallelism:   o.parallelism,
		Length:        o.length,
		Uppercase:     o.uppercase,
		Special:       o.special,
		SpecialSet:    o.specialSet,
		MinLower:      o.minLower,
		MinDigits:     o.minDigits,
		MinUpper:      o.minUpper,
		MinSpecial:    o.minSpecial,
		Summary:       o.summary,
		DebugLevel:    o.debugLevel,
		SaltFile:      o.saltFile,
		ReceiptKey:    o.receiptKey,
		ReceiptMethod: o.receiptMethod,
		ReceiptTTL:    o.receiptTTL,
		AuditRedis:    o.auditRedis,
		AuditStream:   o.auditStream,
	}
}

func newProfileCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage generation profiles",
	}
	cmd.AddCommand(newProfileInitCmd(s))
	return cmd
}

func newProfileInitCmd(s streams) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a profile populated with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%w: %s already exists (use --force to overwrite)", errUsage, path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			data, err := yaml.Marshal(profileFromOptions(defaultOptions()))
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write profile: %w", err)
			}

			fmt.Fprintf(s.out, "Profile written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
