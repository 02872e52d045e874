package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/pkg/submission"
	"github.com/goliatone/go-propdash/pkg/validation"
	"github.com/goliatone/go-propdash/pkg/visibility"
)

// ErrInFlight is returned by Submit while a previous submission is pending.
var ErrInFlight = errors.New("forms: submission already in flight")

// Outcome is the result of Session.Submit.
type Outcome struct {
	Result  validation.Result
	Receipt submission.Receipt
	Message string
}

// Submitted reports whether the values were handed to the sink.
func (o Outcome) Submitted() bool { return o.Result.OK() && o.Receipt.ID != "" }

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLiveValidation re-validates the whole form after every Set. Sessions
// switch to live mode on their own after a rejected submit.
func WithLiveValidation(enabled bool) SessionOption {
	return func(s *Session) { s.live = enabled }
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExtras supplies extra visibility inputs, read by rules as `extras.*`.
func WithExtras(extras map[string]any) SessionOption {
	return func(s *Session) {
		s.extras = make(map[string]any, len(extras))
		for k, v := range extras {
			s.extras[k] = v
		}
	}
}

// Session is the editing state of one form instance. It is safe for
// concurrent use; the sink is called without holding the lock.
type Session struct {
	form   *Form
	sink   submission.Sink
	logger *zap.Logger
	extras map[string]any

	mu       sync.Mutex
	values   validation.Values
	errors   map[string]string
	tab      int
	live     bool
	liveSet  bool
	inFlight bool
	tracker  *visibility.Tracker
}

// NewSession starts a session at the form defaults and the first tab.
func NewSession(form *Form, sink submission.Sink, opts ...SessionOption) *Session {
	s := &Session{
		form:   form,
		sink:   sink,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.liveSet = s.live
	s.resetLocked()
	return s
}

// Form returns the compiled form.
func (s *Session) Form() *Form { return s.form }

func (s *Session) resetLocked() {
	s.values = s.form.Defaults()
	s.errors = map[string]string{}
	s.tab = 0
	s.live = s.liveSet
	s.tracker = visibility.NewTracker(s.form.Evaluator(), s.form.Policy(), s.form.Rules())
	if _, err := s.tracker.Sync(s.values, s.extras); err != nil {
		s.logger.Warn("visibility sync failed", zap.String("form", s.form.ID()), zap.Error(err))
	}
}

// Set stores one field value, re-evaluates visibility and, in live mode,
// refreshes the error messages.
func (s *Session) Set(field string, value any) ([]visibility.Transition, error) {
	if _, ok := s.form.Field(field); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[field] = validation.Values{field: value}.Clone()[field]
	transitions, err := s.tracker.Sync(s.values, s.extras)
	if err != nil {
		return transitions, err
	}
	for _, tr := range transitions {
		if tr.To == visibility.Hidden {
			delete(s.errors, tr.Field)
		}
		s.logger.Debug("field visibility changed",
			zap.String("form", s.form.ID()),
			zap.String("field", tr.Field),
			zap.String("to", string(tr.To)),
			zap.Bool("cleared", tr.Cleared),
		)
	}
	if s.live {
		s.refreshErrorsLocked()
	}
	return transitions, nil
}

func (s *Session) refreshErrorsLocked() {
	result := s.form.ValidateWith(s.values, s.extras)
	s.errors = result.Errors()
	if s.errors == nil {
		s.errors = map[string]string{}
	}
}

// Values returns a copy of the current values.
func (s *Session) Values() validation.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors returns a copy of the current error messages.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Visible reports whether field is currently shown.
func (s *Session) Visible(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Visible(field)
}

// Live reports whether errors refresh on every Set.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// InFlight reports whether a submission is pending.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// ActiveTab returns the id of the active tab.
func (s *Session) ActiveTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.def.Tabs[s.tab].ID
}

// SetTab switches to tab. Switching never validates.
func (s *Session) SetTab(tab string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.form.def.Tabs {
		if t.ID == tab {
			s.tab = i
			return nil
		}
	}
	return fmt.Errorf("forms: %s: unknown tab %q", s.form.ID(), tab)
}

// NextTab advances to the following tab and reports whether it moved.
func (s *Session) NextTab() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tab+1 >= len(s.form.def.Tabs) {
		return false
	}
	s.tab++
	return true
}

// PrevTab returns to the previous tab and reports whether it moved.
func (s *Session) PrevTab() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tab == 0 {
		return false
	}
	s.tab--
	return true
}

// ValidateTab checks the visible fields of tab and records their messages.
// Messages of other tabs are left untouched.
func (s *Session) ValidateTab(tab string) (map[string]string, error) {
	names, ok := s.form.TabFields(tab)
	if !ok {
		return nil, fmt.Errorf("forms: %s: unknown tab %q", s.form.ID(), tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	failures := s.form.ValidateFields(s.values, names)
	for _, name := range names {
		delete(s.errors, name)
	}
	for name, msg := range failures {
		s.errors[name] = msg
	}
	return failures, nil
}

// Submit validates the current values. Rejected values stay in place, the
// messages are recorded and the session switches to live validation.
// Accepted values go to the sink; on success the session resets to the
// defaults and the first tab. While the sink runs, further submits fail with
// ErrInFlight.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Outcome{}, ErrInFlight
	}
	result := s.form.ValidateWith(s.values, s.extras)
	if !result.OK() {
		s.errors = result.Errors()
		s.live = true
		s.mu.Unlock()
		s.logger.Debug("submission rejected", zap.String("form", s.form.ID()), zap.Int("errors", len(result.Errors())))
		return Outcome{Result: result}, nil
	}
	if s.sink == nil {
		s.mu.Unlock()
		return Outcome{Result: result}, fmt.Errorf("forms: %s: no submission sink configured", s.form.ID())
	}
	s.inFlight = true
	s.errors = map[string]string{}
	s.mu.Unlock()

	receipt, err := s.sink.Submit(ctx, s.form.ID(), result.Values())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.logger.Warn("submission failed", zap.String("form", s.form.ID()), zap.Error(err))
		return Outcome{Result: result}, fmt.Errorf("forms: %s: submit: %w", s.form.ID(), err)
	}
	s.resetLocked()
	return Outcome{Result: result, Receipt: receipt, Message: s.form.def.SuccessMessage}, nil
}

// Reset discards the current values and returns to the first tab.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}
