package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

// frameQueue is the part of a FIFO the harness drives. Count and weighted
// queues of *Frame both satisfy it.
type frameQueue interface {
	Push(*Frame) queue.Status
	PullTimeout(time.Duration) (*Frame, queue.Status)
	Len() int
	Clear() error
	Stats() queue.Stats
}

var (
	_ frameQueue = (*queue.FIFO[*Frame, int])(nil)
	_ frameQueue = (*queue.FIFO[*Frame, time.Duration])(nil)
)

// buildQueue creates the queue described by cfg. Frames are disposed when the
// queue evicts or clears them.
func buildQueue(cfg settings.Queue, logger *zap.Logger) (frameQueue, queue.Policy, error) {
	policy, err := queue.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, policy, err
	}

	opts := []queue.Option{
		queue.WithName(cfg.Name),
		queue.WithPolicy(policy),
		queue.WithLogger(logger),
		queue.WithInitialSize(cfg.InitialSize),
	}

	switch cfg.Mode {
	case "count":
		if cfg.Capacity <= 0 {
			return nil, policy, errors.Errorf("queue %s: capacity must be positive", cfg.Name)
		}
		return queue.NewOwned[*Frame](cfg.Capacity, opts...), policy, nil
	case "weighted":
		if cfg.CapacityWeight <= 0 {
			return nil, policy, errors.Errorf("queue %s: capacity_weight must be positive", cfg.Name)
		}
		return queue.NewWeightedOwned[*Frame](cfg.CapacityWeight, opts...), policy, nil
	default:
		return nil, policy, errors.Errorf("queue %s: unknown mode %q", cfg.Name, cfg.Mode)
	}
}

// =============================================================================
// Scenario
// =============================================================================

// runScenario pushes [9,1,2,3,4] into a queue of five, checks that a sixth
// push is refused, drains in order and checks that a further pull times out.
func runScenario(timeout time.Duration) error {
	q := queue.New[int](5)

	want := []int{9, 1, 2, 3, 4}
	for _, v := range want {
		if st := q.Push(v); st != queue.StatusSuccess {
			return errors.Errorf("scenario: push %d: %s", v, st)
		}
	}
	if st := q.Push(6); st != queue.StatusFull {
		return errors.Errorf("scenario: push into full queue: %s", st)
	}

	for _, v := range want {
		got, st := q.PullTimeout(timeout)
		if st != queue.StatusSuccess {
			return errors.Errorf("scenario: pull: %s", st)
		}
		if got != v {
			return errors.Errorf("scenario: pulled %d, want %d", got, v)
		}
	}

	start := time.Now()
	if _, st := q.PullTimeout(timeout); st != queue.StatusTimeout {
		return errors.Errorf("scenario: pull from empty queue: %s", st)
	}
	if elapsed := time.Since(start); elapsed < timeout {
		return errors.Errorf("scenario: timeout returned after %s, want at least %s", elapsed, timeout)
	}
	return nil
}

// =============================================================================
// Verify
// =============================================================================

// VerifyReport summarizes one exactly-once run.
type VerifyReport struct {
	Produced   int           `json:"produced"`
	Consumed   int           `json:"consumed"`
	Missing    int           `json:"missing"`
	Duplicates int           `json:"duplicates"`
	Evicted    uint64        `json:"evicted"`
	Released   int64         `json:"released"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Check returns an error if frames were duplicated, lost without being
// evicted, or never released.
func (r VerifyReport) Check() error {
	if r.Duplicates > 0 {
		return errors.Errorf("verify: %d frames delivered more than once", r.Duplicates)
	}
	if uint64(r.Missing) != r.Evicted {
		return errors.Errorf("verify: %d frames missing, %d evicted", r.Missing, r.Evicted)
	}
	if r.Released != int64(r.Produced) {
		return errors.Errorf("verify: %d of %d frames released", r.Released, r.Produced)
	}
	return nil
}

// runVerify pushes Producers*Pushes frames through q and records every
// delivery in a producer x sequence matrix. Under Reject producers retry
// until the frame is accepted; under EvictOldest a full push has already
// stored the frame.
func runVerify(ctx context.Context, q frameQueue, policy queue.Policy, cfg settings.Bench, logger *zap.Logger) (VerifyReport, error) {
	var (
		report    VerifyReport
		released  atomic.Int64
		consumed  atomic.Int64
		producing atomic.Bool
		seen      sync.Map // uuid.UUID -> struct{}
	)

	verif := make([][]int32, cfg.Producers)
	for i := range verif {
		verif[i] = make([]int32, cfg.Pushes)
	}

	pool, err := ants.NewPool(cfg.Consumers)
	if err != nil {
		return report, errors.Wrap(err, "create consumer pool")
	}
	defer pool.Release()

	start := time.Now()
	producing.Store(true)

	var wg sync.WaitGroup
	for c := 0; c < cfg.Consumers; c++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			misses := 0
			for misses < 2 && ctx.Err() == nil {
				f, st := q.PullTimeout(cfg.PullTimeout)
				if st == queue.StatusTimeout {
					if !producing.Load() {
						misses++
					}
					continue
				}
				misses = 0
				if _, dup := seen.LoadOrStore(f.ID, struct{}{}); dup {
					logger.Error("duplicate frame", zap.Stringer("id", f.ID))
				}
				atomic.AddInt32(&verif[f.Producer][f.Seq], 1)
				consumed.Add(1)
				if err := f.Dispose(); err != nil {
					logger.Warn("dispose pulled frame", zap.Stringer("id", f.ID), zap.Error(err))
				}
			}
		})
		if err != nil {
			wg.Done()
			producing.Store(false)
			wg.Wait()
			return report, errors.Wrap(err, "submit consumer")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < cfg.Producers; p++ {
		p := p
		g.Go(func() error {
			for seq := 0; seq < cfg.Pushes; seq++ {
				f := newFrame(p, seq, cfg.PayloadSize, cfg.FrameWeight, &released)
				for q.Push(f) == queue.StatusFull && policy == queue.Reject {
					select {
					case <-gctx.Done():
						if err := f.Dispose(); err != nil {
							logger.Warn("dispose unsent frame", zap.Stringer("id", f.ID), zap.Error(err))
						}
						return gctx.Err()
					case <-time.After(cfg.RetryDelay):
					}
				}
			}
			return nil
		})
	}

	perr := g.Wait()
	producing.Store(false)
	wg.Wait()

	// Leftovers exist only when the run was cancelled.
	if err := q.Clear(); err != nil {
		logger.Warn("clear after verify", zap.Error(err))
	}
	if perr != nil {
		return report, errors.Wrap(perr, "verify producers")
	}

	report.Produced = cfg.Producers * cfg.Pushes
	report.Consumed = int(consumed.Load())
	for p := range verif {
		for _, n := range verif[p] {
			switch {
			case n == 0:
				report.Missing++
			case n > 1:
				report.Duplicates += int(n - 1)
			}
		}
	}
	report.Evicted = q.Stats().Evicted
	report.Released = released.Load()
	report.Elapsed = time.Since(start)
	return report, nil
}

// =============================================================================
// Perf
// =============================================================================

// PerfResult is the single-goroutine throughput of one queue size.
type PerfResult struct {
	Size   int     `json:"size"`
	Writes float64 `json:"writes_per_sec"`
	Reads  float64 `json:"reads_per_sec"`
}

// runPerf fills and drains a queue of each size until at least ops pushes
// were timed, and reports push and pull rates.
func runPerf(ctx context.Context, qcfg settings.Queue, bench settings.Bench, ops int, logger *zap.Logger) ([]PerfResult, error) {
	results := make([]PerfResult, 0, len(bench.PerfSizes))

	for _, size := range bench.PerfSizes {
		res, err := runPerfSize(ctx, qcfg, bench, size, ops, nil, logger)
		if err != nil {
			return results, err
		}
		logger.Info("perf",
			zap.Int("size", res.Size),
			zap.Float64("writes_per_sec", res.Writes),
			zap.Float64("reads_per_sec", res.Reads),
		)
		results = append(results, res)
	}
	return results, nil
}

// runPerfSize times one queue size. Its frames are disposed on return and
// counted in released when it is not nil.
func runPerfSize(ctx context.Context, qcfg settings.Queue, bench settings.Bench, size, ops int, released *atomic.Int64, logger *zap.Logger) (PerfResult, error) {
	cfg := qcfg
	cfg.Name = qcfg.Name + "-perf"
	cfg.Policy = queue.Reject.String()
	cfg.Capacity = size
	cfg.CapacityWeight = time.Duration(size) * bench.FrameWeight

	q, _, err := buildQueue(cfg, logger)
	if err != nil {
		return PerfResult{}, err
	}

	frames := make([]*Frame, size)
	for i := range frames {
		frames[i] = newFrame(0, i, bench.PayloadSize, bench.FrameWeight, released)
	}
	// A Reject queue never releases, so the frames are disposed only here.
	defer func() {
		if err := disposeFrames(frames...); err != nil {
			logger.Warn("dispose perf frames", zap.Int("size", size), zap.Error(err))
		}
	}()

	var writeTime, readTime time.Duration
	done := 0
	for done < ops {
		if err := ctx.Err(); err != nil {
			return PerfResult{}, err
		}

		start := time.Now()
		for _, f := range frames {
			q.Push(f)
		}
		writeTime += time.Since(start)

		start = time.Now()
		for range frames {
			if _, st := q.PullTimeout(0); st != queue.StatusSuccess {
				return PerfResult{}, errors.Errorf("perf size %d: queue drained early", size)
			}
		}
		readTime += time.Since(start)

		done += size
	}

	return PerfResult{
		Size:   size,
		Writes: rate(done, writeTime),
		Reads:  rate(done, readTime),
	}, nil
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

// newRunID tags the log lines of one run.
func newRunID() string {
	return uuid.NewString()
}
