// Package partition splits a total amount into random shares.
package partition

import "github.com/okian/redpacket/internal/domain/money"

// Option applies a configuration option to the Partitioner.
type Option func(*Partitioner)

// WithSource sets the random source used for draws and the final shuffle.
func WithSource(src Source) Option {
	return func(p *Partitioner) {
		if src != nil {
			p.src = src
		}
	}
}

// WithSeed uses a math/rand source seeded with seed. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(p *Partitioner) {
		p.src = NewSource(seed)
	}
}

// WithMinShare sets the lower bound of each draw. Non-positive values are ignored.
func WithMinShare(minShare money.Amount) Option {
	return func(p *Partitioner) {
		if minShare.IsPositive() {
			p.minShare = minShare.Float64()
		}
	}
}
