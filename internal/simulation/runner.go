// Package simulation runs many partitions with the same inputs and
// summarises how the shares are distributed.
package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/redpacket/internal/domain/money"
	"github.com/okian/redpacket/internal/domain/partition"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/okian/redpacket/pkg/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const nanosecondsPerMillisecond = 1e6

// Stats summarises a batch of draws.
type Stats struct {
	Total        money.Amount
	Participants int
	Rounds       int

	Shares         int
	ZeroShares     int
	NegativeShares int
	MinShare       money.Amount
	MaxShare       money.Amount
	MeanShare      money.Amount
	// MaxDeviation is the largest |sum(shares) - total| over all rounds.
	MaxDeviation money.Amount

	Duration time.Duration

	sum decimal.Decimal
}

// DrawsPerSecond returns the throughput of the run.
func (s Stats) DrawsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rounds) / s.Duration.Seconds()
}

func (s *Stats) observe(total money.Amount, shares partition.Result) {
	for _, sh := range shares {
		if s.Shares == 0 || sh.Cmp(s.MinShare) < 0 {
			s.MinShare = sh
		}
		if s.Shares == 0 || sh.Cmp(s.MaxShare) > 0 {
			s.MaxShare = sh
		}
		switch {
		case sh.IsZero():
			s.ZeroShares++
		case sh.IsNegative():
			s.NegativeShares++
		}
		s.sum = s.sum.Add(sh.Decimal())
		s.Shares++
	}
	if dev := shares.Sum().Sub(total).Abs(); dev.Cmp(s.MaxDeviation) > 0 {
		s.MaxDeviation = dev
	}
	s.Rounds++
}

func (s *Stats) merge(o Stats) {
	if o.Shares == 0 {
		return
	}
	if s.Shares == 0 || o.MinShare.Cmp(s.MinShare) < 0 {
		s.MinShare = o.MinShare
	}
	if s.Shares == 0 || o.MaxShare.Cmp(s.MaxShare) > 0 {
		s.MaxShare = o.MaxShare
	}
	if o.MaxDeviation.Cmp(s.MaxDeviation) > 0 {
		s.MaxDeviation = o.MaxDeviation
	}
	s.Shares += o.Shares
	s.ZeroShares += o.ZeroShares
	s.NegativeShares += o.NegativeShares
	s.Rounds += o.Rounds
	s.sum = s.sum.Add(o.sum)
}

// Runner executes batches of partitions across a fixed set of workers.
type Runner struct {
	workers  int
	seed     int64
	minShare money.Amount
	logger   logger.Logger
	metrics  *metrics.Manager

	maxParticipants int
}

// NewRunner creates a Runner with one worker per CPU.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers: runtime.NumCPU(),
		logger:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run partitions total among participants rounds times. Rounds are split
// into contiguous chunks, one per worker, and each worker owns its own
// partitioner, so a fixed seed and worker count give the same Stats.
func (r *Runner) Run(ctx context.Context, total money.Amount, participants, rounds int) (Stats, error) {
	if !total.IsPositive() || participants <= 0 || rounds <= 0 {
		return Stats{}, ErrInvalidRun
	}
	if !partition.InRange(total) {
		return Stats{}, fmt.Errorf("%w: amount %s is too large", ErrOutOfRange, total)
	}
	if r.maxParticipants > 0 && participants > r.maxParticipants {
		return Stats{}, fmt.Errorf("%w: participant count %d exceeds the limit of %d", ErrOutOfRange, participants, r.maxParticipants)
	}

	workers := min(r.workers, rounds)
	seed := r.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r.logger.Info(ctx, "simulation started",
		logger.String("total", total.Fixed()),
		logger.Int("participants", participants),
		logger.Int("rounds", rounds),
		logger.Int("workers", workers),
		logger.Int64("seed", seed),
	)

	start := time.Now()
	partial := make([]Stats, workers)
	g, gctx := errgroup.WithContext(ctx)
	base, extra := rounds/workers, rounds%workers
	for w := 0; w < workers; w++ {
		n := base
		if w < extra {
			n++
		}
		g.Go(func() error {
			return r.work(gctx, seed+int64(w), total, participants, n, &partial[w])
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("simulation: %w", err)
	}

	stats := Stats{Total: total, Participants: participants}
	for _, p := range partial {
		stats.merge(p)
	}
	if stats.Shares > 0 {
		stats.MeanShare = money.FromDecimal(stats.sum.Div(decimal.NewFromInt(int64(stats.Shares))))
	}
	stats.Duration = time.Since(start)

	r.logger.Info(ctx, "simulation finished",
		logger.Int("rounds", stats.Rounds),
		logger.Int("zero_shares", stats.ZeroShares),
		logger.Int("negative_shares", stats.NegativeShares),
		logger.String("max_deviation", stats.MaxDeviation.String()),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (r *Runner) work(ctx context.Context, seed int64, total money.Amount, participants, rounds int, out *Stats) error {
	popts := []partition.Option{partition.WithSeed(seed)}
	if r.minShare.IsPositive() {
		popts = append(popts, partition.WithMinShare(r.minShare))
	}
	p := partition.New(popts...)

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		shares := p.Partition(total, participants)
		elapsed := time.Since(start)

		zeros, negatives := out.ZeroShares, out.NegativeShares
		out.observe(total, shares)
		if r.metrics != nil {
			r.metrics.RecordDraw(participants, out.ZeroShares-zeros, out.NegativeShares-negatives,
				float64(elapsed.Nanoseconds())/nanosecondsPerMillisecond)
		}
	}
	return nil
}
