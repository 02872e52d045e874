// Package submission hands accepted form values to a downstream handler. The
// Simulated sink stands in for the API call the dashboard does not make yet:
// it waits a fixed delay, assigns an ID and records the receipt.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/pkg/validation"
)

// DefaultDelay mirrors the artificial latency of the dashboard's submit flow.
const DefaultDelay = 1500 * time.Millisecond

// Receipt describes an accepted submission.
type Receipt struct {
	ID     string            `json:"id"`
	Form   string            `json:"form"`
	At     time.Time         `json:"at"`
	Values validation.Values `json:"values"`
}

// Sink receives schema-valid values. Sinks only promise the values were
// handed over; they say nothing about downstream success beyond the error.
type Sink interface {
	Submit(ctx context.Context, form string, values validation.Values) (Receipt, error)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, form string, values validation.Values) (Receipt, error)

// Submit delegates to the underlying function.
func (fn SinkFunc) Submit(ctx context.Context, form string, values validation.Values) (Receipt, error) {
	return fn(ctx, form, values)
}

// ErrMissingForm is returned when a submission names no form.
var ErrMissingForm = errors.New("submission: form id is required")

// Simulated waits Delay before accepting, honouring ctx cancellation.
type Simulated struct {
	delay  time.Duration
	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	mu       sync.Mutex
	receipts []Receipt
}

// Option configures a Simulated sink.
type Option func(*Simulated)

// WithDelay overrides DefaultDelay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Simulated) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Simulated) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the receipt ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Simulated) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulated) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSimulated builds a sink with DefaultDelay, uuid IDs and a no-op logger.
func NewSimulated(opts ...Option) *Simulated {
	s := &Simulated{
		delay:  DefaultDelay,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Delay reports the configured latency.
func (s *Simulated) Delay() time.Duration { return s.delay }

// Submit implements Sink.
func (s *Simulated) Submit(ctx context.Context, form string, values validation.Values) (Receipt, error) {
	form = strings.TrimSpace(form)
	if form == "" {
		return Receipt{}, ErrMissingForm
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.logger.Debug("submission cancelled", zap.String("form", form), zap.Error(ctx.Err()))
			return Receipt{}, fmt.Errorf("submission: %s: %w", form, ctx.Err())
		case <-timer.C:
		}
	}

	receipt := Receipt{
		ID:     s.newID(),
		Form:   form,
		At:     s.now().UTC(),
		Values: values.Clone(),
	}

	s.mu.Lock()
	s.receipts = append(s.receipts, receipt)
	s.mu.Unlock()

	s.logger.Info("submission accepted", zap.String("form", form), zap.String("id", receipt.ID))
	return receipt, nil
}

// Receipts returns every accepted submission in arrival order.
func (s *Simulated) Receipts() []Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}
