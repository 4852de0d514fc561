package test

import (
	"testing"

	"github.com/MrEthical07/argonchain"
)

func TestDefaultConfigPresetValidates(t *testing.T) {
	cfg := argonchain.DefaultConfig()

	if cfg.Policy.Length != 12 || cfg.Policy.IncludeUpper || cfg.Policy.IncludeSpecial {
		t.Fatalf("unexpected default policy: %+v", cfg.Policy)
	}
	if cfg.Audit.Enabled || cfg.Metrics.Enabled || cfg.Receipt.Enabled {
		t.Fatal("expected optional features disabled in preset baseline")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected preset to validate, got %v", err)
	}
}

func TestLegacyConfigPresetValidates(t *testing.T) {
	cfg := argonchain.LegacyConfig()

	if cfg.Cost.Time != 20 || cfg.Cost.Memory != 1024000 || cfg.Cost.Parallelism != 1 {
		t.Fatalf("unexpected legacy cost: %+v", cfg.Cost)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected legacy preset to validate, got %v", err)
	}
}

func TestHighSecurityConfigPresetValidates(t *testing.T) {
	cfg := argonchain.HighSecurityConfig()

	if !cfg.Policy.IncludeUpper || !cfg.Policy.IncludeSpecial {
		t.Fatal("expected every character class enabled")
	}
	if cfg.Policy.MinSpecial < 1 || cfg.Policy.MinUpper < 1 {
		t.Fatal("expected minimums for upper and special classes")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected high security preset to validate, got %v", err)
	}
}

func TestPresetsAreIndependentCopies(t *testing.T) {
	a := argonchain.DefaultConfig()
	a.Salts = append(a.Salts, "mutated")
	a.Policy.Length = 99

	b := argonchain.DefaultConfig()
	if len(b.Salts) != 0 || b.Policy.Length == 99 {
		t.Fatal("preset shares state between calls")
	}
}
