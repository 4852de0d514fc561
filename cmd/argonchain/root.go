package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/argonchain"
	"github.com/MrEthical07/argonchain/metrics/export/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(s streams) *cobra.Command {
	o := defaultOptions()

	cmd := &cobra.Command{
		Use:   "argonchain",
		Short: "Derive a reproducible chain of passwords with Argon2id",
		Long: `argonchain hashes an initial string through a chain of Argon2id calls,
rotating through the given salts, and turns every digest into a password
that satisfies the requested character policy.

The same initial string, salts, cost parameters and policy always yield
the same passwords.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyProfile(cmd, o); err != nil {
				return err
			}
			return runGenerate(cmd.Context(), s, o)
		},
	}
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	o.register(cmd)

	cmd.AddCommand(newProfileCmd(s))
	cmd.AddCommand(newReceiptCmd(s))

	return cmd
}

func runGenerate(ctx context.Context, s streams, o *options) error {
	if err := o.validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := newLogger(s.errOut, o.debugLevel)

	// Reject impossible policies and costs before asking for any secret.
	cfg, err := o.config(nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	initial := o.initial
	if initial == "" {
		var err error
		if initial, err = promptInitial(s.prompt, s.errOut); err != nil {
			return err
		}
		log.Info("Initial string confirmed.")
	}

	salts, err := resolveSalts(s, o)
	if err != nil {
		return err
	}
	log.Infof("%d salts in rotation.", len(salts))
	cfg.Salts = salts

	b := argonchain.New().WithConfig(cfg).WithLogger(log)

	var sink *argonchain.RedisStreamSink
	if o.auditRedis != "" {
		client, err := dialRedis(ctx, o.auditRedis)
		if err != nil {
			return err
		}
		defer client.Close()
		sink = argonchain.NewRedisStreamSink(client, o.auditStream, 10000)
		b = b.WithAuditSink(sink)
	}

	if o.debugLevel > 0 {
		b = b.WithObserver(passwordLogger{log: log})
	}

	var bar *progressBar
	if s.tty && o.debugLevel == 0 {
		bar = newProgressBar(s.errOut, o.iterations)
		b = b.WithObserver(bar)
	}

	g, err := b.Build()
	if err != nil {
		return err
	}
	defer g.Close()

	for _, w := range cfg.Lint() {
		if w.Severity == argonchain.LintWarn {
			log.WithField("code", w.Code).Warn(w.Message)
		}
	}

	log.Infof("Starting password generation with %d iterations...", o.iterations)
	res, runErr := g.Run(ctx, o.iterations, initial)
	if bar != nil {
		bar.Finish()
	}
	if runErr != nil {
		var re *argonchain.RunError
		if errors.As(runErr, &re) && res != nil {
			log.WithField("delivered", len(res.Passwords)).Error("run stopped early")
		}
		return runErr
	}

	if o.summary {
		fmt.Fprint(s.out, renderSummary(initial, o.iterations, g.Report(), res))
	} else {
		fmt.Fprint(s.out, renderFinal(res.Final()))
	}
	if res.Receipt != "" {
		fmt.Fprintf(s.out, "Receipt: %s\n", res.Receipt)
	}

	if o.metrics {
		fmt.Fprint(s.errOut, prometheus.New(g).Render())
	}

	// Close flushes the audit dispatcher so every write has been attempted.
	g.Close()
	if n := g.AuditDropped(); n > 0 {
		log.WithField("dropped", n).Warn("audit events dropped")
	}
	if sink != nil {
		if n := sink.Failed(); n > 0 {
			log.WithFields(logrus.Fields{
				"failed": n,
				"stream": sink.Stream(),
			}).Warn("audit events could not be written to redis")
		}
	}

	return nil
}

func resolveSalts(s streams, o *options) ([]string, error) {
	switch {
	case len(o.salts) > 0:
		return o.salts, nil
	case o.saltFile != "":
		return loadSaltFile(o.saltFile)
	default:
		return promptSalts(s.prompt, s.errOut)
	}
}

func dialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect audit redis %s: %w", addr, err)
	}
	return client, nil
}
