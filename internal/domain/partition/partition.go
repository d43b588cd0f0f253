// Package partition splits a total amount into random shares.
package partition

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/redpacket/internal/domain/money"
)

// defaultMinShare is the lower bound of every draw (one cent).
const defaultMinShare = 0.01

// Source is the randomness a Partitioner consumes. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Shuffle permutes n elements uniformly using swap.
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a seeded math/rand source. A zero seed uses the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, not security sensitive
}

// InRange reports whether total is small enough for the float draw: twice
// its value must still be a finite float64.
func InRange(total money.Amount) bool {
	return !math.IsInf(total.Float64()*2, 0)
}

// Result is one partition: shares in shuffled order.
type Result []money.Amount

// Len returns the number of shares.
func (r Result) Len() int { return len(r) }

// Sum adds all shares.
func (r Result) Sum() money.Amount { return money.Sum(r) }

// Partitioner draws shares with the "twice the remaining average" heuristic.
type Partitioner struct {
	src      Source
	minShare float64
}

// New creates a Partitioner. Without WithSource or WithSeed it uses a
// clock-seeded source.
func New(opts ...Option) *Partitioner {
	p := &Partitioner{
		minShare: defaultMinShare,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.src == nil {
		p.src = NewSource(0)
	}
	return p
}

// Partition splits total into count shares.
//
// Participant i (0-based, all but the last) draws uniformly from
// [min, remaining*2/(count-i)), rounded to cents; the rounded value is
// subtracted from remaining. The last participant takes remaining rounded to
// cents, which may be zero or negative when earlier draws overshoot. The
// shares are shuffled before returning.
//
// Inputs are not validated: callers must ensure total > 0, count >= 1 and
// InRange(total); an out-of-range total panics.
// A non-positive count yields an empty result.
func (p *Partitioner) Partition(total money.Amount, count int) Result {
	if count <= 0 {
		return Result{}
	}

	shares := make(Result, 0, count)
	remaining := total
	for i := 0; i < count-1; i++ {
		upper := remaining.Float64() * 2 / float64(count-i)
		r := p.minShare + (upper-p.minShare)*p.src.Float64()
		share := money.NewRounded(r)
		shares = append(shares, share)
		remaining = remaining.Sub(share)
	}
	shares = append(shares, remaining.Round())

	p.src.Shuffle(len(shares), func(i, j int) {
		shares[i], shares[j] = shares[j], shares[i]
	})
	return shares
}
