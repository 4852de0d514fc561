package test

import (
	"testing"

	"github.com/MrEthical07/argonchain"
)

func fastConfig() argonchain.Config {
	cfg := argonchain.DefaultConfig()
	cfg.Cost.Time = 1
	cfg.Cost.Memory = 64
	cfg.Cost.Parallelism = 1
	return cfg
}

func buildGenerator(t *testing.T, cfg argonchain.Config) *argonchain.Generator {
	t.Helper()

	g, err := argonchain.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}
