// Package service provides the session service: it validates caller input,
// runs the partitioner, keeps the session history and exports it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/redpacket/internal/adapters/repository"
	"github.com/okian/redpacket/internal/domain/history"
	"github.com/okian/redpacket/internal/domain/money"
	"github.com/okian/redpacket/internal/domain/partition"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/okian/redpacket/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// DefaultMaxParticipants is the participant cap when none is configured.
const DefaultMaxParticipants = 100000

// Validation reasons reported to metrics.
const (
	reasonInvalidInput = "invalid_input"
	reasonNonPositive  = "non_positive"
)

// Outcome is the result of one successful draw.
type Outcome struct {
	// Index is the 1-based position of the record in the history.
	Index  int
	Record history.Record
}

// Shares returns the drawn shares in presentation order.
func (o Outcome) Shares() []money.Amount { return o.Record.Shares() }

// Service owns one session: its history, partitioner and store.
type Service struct {
	mu sync.Mutex

	history     *history.History
	partitioner *partition.Partitioner
	store       repository.Store
	metrics     *metrics.Manager
	logger      logger.Logger

	// Partitioner configuration.
	seed     int64
	minShare money.Amount
	source   partition.Source

	autosave        bool
	maxParticipants int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where Save writes the history.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHistory continues an existing history instead of starting a new one.
func WithHistory(h *history.History) Option {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// WithMetrics sets the metrics manager; defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSeed seeds the partitioner's random source; 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithSource injects the partitioner's random source. It wins over WithSeed.
func WithSource(src partition.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithMinShare sets the lower bound of each draw.
func WithMinShare(minShare money.Amount) Option {
	return func(s *Service) {
		if minShare.IsPositive() {
			s.minShare = minShare
		}
	}
}

// WithAutosave saves the history after every successful draw.
func WithAutosave(enabled bool) Option {
	return func(s *Service) {
		s.autosave = enabled
	}
}

// WithMaxParticipants caps the participant count of a draw.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParticipants = n
		}
	}
}

// New constructs a Service with a fresh history.
func New(opts ...Option) *Service {
	s := &Service{
		logger:          logger.Nop(),
		maxParticipants: DefaultMaxParticipants,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.history == nil {
		s.history = history.New()
	}
	if s.metrics == nil {
		s.metrics = metrics.Global()
	}

	popts := []partition.Option{partition.WithSeed(s.seed)}
	if s.source != nil {
		popts = append(popts, partition.WithSource(s.source))
	}
	if s.minShare.IsPositive() {
		popts = append(popts, partition.WithMinShare(s.minShare))
	}
	s.partitioner = partition.New(popts...)

	s.metrics.UpdateHistoryRecords(s.history.Len())
	return s
}

// ParseInput turns caller text into a total and a participant count.
// Non-numeric totals, non-integer counts and totals too large to draw wrap
// ErrInvalidInput; values that are not greater than zero wrap ErrNonPositive.
// The participant cap is checked by the Service.
func ParseInput(totalText, countText string) (money.Amount, int, error) {
	const op = "service.parse_input"
	total, err := money.Parse(totalText)
	if err != nil {
		return money.Zero, 0, WrapKind(op, ErrInvalidInput, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil {
		return money.Zero, 0, WrapKind(op, ErrInvalidInput, fmt.Errorf("participant count %q is not an integer", countText))
	}
	if err := validate(op, total, count); err != nil {
		return money.Zero, 0, err
	}
	return total, count, nil
}

func validate(op string, total money.Amount, count int) error {
	if !total.IsPositive() || count <= 0 {
		return NewKind(op, ErrNonPositive)
	}
	if !partition.InRange(total) {
		return WrapKind(op, ErrInvalidInput, fmt.Errorf("amount %s is too large", total))
	}
	return nil
}

func (s *Service) validate(op string, total money.Amount, count int) error {
	if err := validate(op, total, count); err != nil {
		return err
	}
	if count > s.maxParticipants {
		return WrapKind(op, ErrInvalidInput,
			fmt.Errorf("participant count %d exceeds the limit of %d", count, s.maxParticipants))
	}
	return nil
}

// Draw parses user text and performs one draw. On a validation error no
// partition is computed and the history is unchanged.
func (s *Service) Draw(ctx context.Context, totalText, countText string) (Outcome, error) {
	total, count, err := ParseInput(totalText, countText)
	if err != nil {
		s.rejected(ctx, err, logger.String("total", totalText), logger.String("participants", countText))
		return Outcome{}, err
	}
	return s.DrawAmount(ctx, total, count)
}

// DrawAmount partitions total among count participants and appends the
// result to the history. If autosave is on and the save fails, the draw is
// still recorded and the returned error wraps ErrSave.
func (s *Service) DrawAmount(ctx context.Context, total money.Amount, count int) (Outcome, error) {
	const op = "service.draw"
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate(op, total, count); err != nil {
		s.rejected(ctx, err, logger.String("total", total.String()), logger.Int("participants", count))
		return Outcome{}, err
	}

	s.mu.Lock()
	start := time.Now()
	shares := s.partitioner.Partition(total, count)
	elapsed := time.Since(start)
	rec := history.NewRecord(total, count, shares)
	s.history.Append(rec)
	index := s.history.Len()
	s.mu.Unlock()

	zeros, negatives := countDegenerate(shares)
	s.metrics.RecordDraw(count, zeros, negatives, float64(elapsed.Nanoseconds())/nanosecondsPerMillisecond)
	s.metrics.UpdateHistoryRecords(index)
	s.logger.Debug(ctx, "draw recorded",
		logger.String("session", s.history.ID()),
		logger.Int("record", index),
		logger.String("total", total.Fixed()),
		logger.Int("participants", count),
		logger.Int("zero_shares", zeros),
		logger.Int("negative_shares", negatives),
	)
	if negatives > 0 {
		s.logger.Warn(ctx, "earlier draws overshot the total; last share is negative",
			logger.String("session", s.history.ID()),
			logger.Int("record", index),
		)
	}

	out := Outcome{Index: index, Record: rec}
	if s.autosave {
		if err := s.Save(ctx); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Save writes a snapshot of the history to the store. A failure leaves the
// in-memory history untouched.
func (s *Service) Save(ctx context.Context) error {
	const op = "service.save"
	if s.store == nil {
		return NewKind(op, ErrNoStore)
	}
	doc := s.history.Snapshot()
	err := s.store.Save(ctx, doc)
	s.metrics.RecordHistorySave(err)
	if err != nil {
		s.logger.Error(ctx, "history save failed",
			logger.String("session", s.history.ID()),
			logger.Int("records", len(doc)),
			logger.Error(err),
		)
		return WrapKind(op, ErrSave, err)
	}
	s.logger.Info(ctx, "history saved",
		logger.String("session", s.history.ID()),
		logger.Int("records", len(doc)),
	)
	return nil
}

// History returns the session history.
func (s *Service) History() *history.History { return s.history }

// Render returns the history report lines.
func (s *Service) Render() []string { return s.history.Render() }

// GetStats returns session statistics.
func (s *Service) GetStats() map[string]interface{} {
	records := s.history.Records()
	shares, zeros, negatives := 0, 0, 0
	for _, r := range records {
		sh := r.Shares()
		z, n := countDegenerate(sh)
		shares += len(sh)
		zeros += z
		negatives += n
	}
	return map[string]interface{}{
		"session":        s.history.ID(),
		"records":        len(records),
		"shares":         shares,
		"zeroShares":     zeros,
		"negativeShares": negatives,
		"autosave":       s.autosave,
	}
}

func (s *Service) rejected(ctx context.Context, err error, fields ...logger.Field) {
	reason := reasonInvalidInput
	if errors.Is(err, ErrNonPositive) {
		reason = reasonNonPositive
	}
	s.metrics.RecordValidationError(reason)
	s.logger.Warn(ctx, "draw rejected", append(fields, logger.String("reason", reason), logger.Error(err))...)
}

func countDegenerate(shares []money.Amount) (zeros, negatives int) {
	for _, sh := range shares {
		switch {
		case sh.IsZero():
			zeros++
		case sh.IsNegative():
			negatives++
		}
	}
	return zeros, negatives
}
