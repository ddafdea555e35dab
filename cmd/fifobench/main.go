// Command fifobench exercises a bounded FIFO: a fixed scenario, a
// multi-producer multi-consumer exactly-once check and a throughput run.
//
//	fifobench -config bench.yaml -mode weighted -producers 4 -consumers 4
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-fifo/pkg/logger"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fifobench: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("fifobench", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config path (defaults apply when empty)")
	producers := fs.Int("producers", 0, "override bench.producers")
	consumers := fs.Int("consumers", 0, "override bench.consumers")
	pushes := fs.Int("pushes", 0, "override bench.pushes")
	mode := fs.String("mode", "", "override queue.mode (count|weighted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, overrides{
		producers: *producers,
		consumers: *consumers,
		pushes:    *pushes,
		mode:      *mode,
	})
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runBench(ctx, cfg, log)
}

// overrides are the flag values that replace config fields when set.
type overrides struct {
	producers int
	consumers int
	pushes    int
	mode      string
}

func loadConfig(path string, o overrides) (*settings.Config, error) {
	cfg := settings.Default()
	if path != "" {
		var err error
		if cfg, err = settings.Load(path); err != nil {
			return nil, err
		}
	}

	if o.producers > 0 {
		cfg.Bench.Producers = o.producers
	}
	if o.consumers > 0 {
		cfg.Bench.Consumers = o.consumers
	}
	if o.pushes > 0 {
		cfg.Bench.Pushes = o.pushes
	}
	if o.mode != "" {
		cfg.Queue.Mode = o.mode
	}

	if cfg.Queue.Capacity == 0 {
		cfg.Queue.Capacity = defaultCapacity
	}
	if cfg.Queue.CapacityWeight == 0 {
		cfg.Queue.CapacityWeight = defaultCapacity * cfg.Bench.FrameWeight
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultCapacity bounds the verify queue when the config leaves it unset.
const defaultCapacity = 64

// runBench runs the scenario, verify and perf phases in order. When metrics
// are enabled the HTTP server runs alongside them and stops with ctx.
func runBench(ctx context.Context, cfg *settings.Config, base *zap.Logger) error {
	reports := &reportStore{report: Report{RunID: newRunID()}}
	log := base.With(zap.String("run_id", reports.get().RunID))

	q, policy, err := buildQueue(cfg.Queue, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	benchCtx, cancelBench := context.WithCancel(gctx)
	defer cancelBench()

	if cfg.Metrics.Enabled {
		router, err := newRouter(cfg.Metrics.Mode, q, reports, log)
		if err != nil {
			return errors.Wrap(err, "build metrics router")
		}
		g.Go(func() error {
			return serve(benchCtx, cfg.Metrics, router, log)
		})
	}

	g.Go(func() error {
		// Without a server there is nothing to keep alive after the phases.
		if !cfg.Metrics.Enabled {
			defer cancelBench()
		}

		if err := runScenario(cfg.Bench.PullTimeout); err != nil {
			return err
		}
		log.Info("scenario passed")

		rep, err := runVerify(benchCtx, q, policy, cfg.Bench, log)
		if err != nil {
			return err
		}
		reports.setVerify(rep)
		log.Info("verify finished",
			zap.String("mode", cfg.Queue.Mode),
			zap.Stringer("policy", policy),
			zap.Int("produced", rep.Produced),
			zap.Int("consumed", rep.Consumed),
			zap.Int("missing", rep.Missing),
			zap.Uint64("evicted", rep.Evicted),
			zap.Duration("elapsed", rep.Elapsed),
		)
		if err := rep.Check(); err != nil {
			return err
		}

		perf, err := runPerf(benchCtx, cfg.Queue, cfg.Bench, cfg.Bench.Pushes, log)
		if err != nil {
			return err
		}
		reports.setPerf(perf)
		log.Info("bench finished")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
