package simulation

import (
	"github.com/okian/redpacket/internal/domain/money"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/okian/redpacket/pkg/metrics"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithWorkers sets how many goroutines share the rounds.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSeed fixes the base seed; worker w uses seed+w. 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithMinShare sets the lower bound of each draw.
func WithMinShare(minShare money.Amount) Option {
	return func(r *Runner) {
		if minShare.IsPositive() {
			r.minShare = minShare
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every simulated draw on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithMaxParticipants rejects runs with more participants than n.
func WithMaxParticipants(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxParticipants = n
		}
	}
}
