package form

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/types"
	"github.com/turbot/flowpipe-form/internal/util"
)

// Submitter performs the upstream submission against the one-shot
// response_url. The server may return a refreshed descriptor; it is ignored
// for correctness.
type Submitter interface {
	SubmitForm(ctx context.Context, responseURL string, submission types.FormSubmission) (*types.FormData, error)
}

// Session owns the local state of one mounted form: the descriptor fetched
// at mount time, the current value set, field-level validation messages and
// the submission state machine. A session is owned by exactly one mounted
// form; the mutex only serializes the page GET/POST handlers that share it.
type Session struct {
	mu sync.Mutex

	id   string
	form *types.FormData

	values      types.FormValues
	fieldErrors map[string]string

	state *State

	autoSubmit    bool
	autoSubmitted bool
	closed        bool

	submitter Submitter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAutoSubmit enables the implicit-submit presentation path: a valid
// form submits itself once per mount without a separate confirm step.
func WithAutoSubmit() SessionOption {
	return func(s *Session) {
		s.autoSubmit = true
	}
}

// NewSession mounts a form session over a fetched descriptor. Initial
// values are derived per input, in priority order: query override (comma
// split for multi-valued types), then options flagged selected, then empty.
// The session validates on mount.
func NewSession(form *types.FormData, overrides url.Values, submitter Submitter, opts ...SessionOption) *Session {
	s := &Session{
		id:        util.NewSessionId(),
		form:      form,
		values:    types.FormValues{},
		submitter: submitter,
		state:     NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for name, input := range form.Inputs {
		s.values[name] = initialValues(name, input, overrides)
	}
	s.fieldErrors = Validate(form.Inputs, s.values)

	return s
}

func initialValues(name string, input types.FormInput, overrides url.Values) []string {
	t := input.Type()

	if overrides != nil && overrides.Has(name) {
		raw := overrides.Get(name)
		if t.IsMulti() {
			return strings.Split(raw, ",")
		}
		return []string{raw}
	}

	var selected []string
	for _, o := range input.Options {
		if o.IsSelected() {
			selected = append(selected, o.GetValue())
		}
	}
	if len(selected) > 0 {
		if t.IsMulti() {
			return selected
		}
		return selected[:1]
	}

	return []string{}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Form() *types.FormData {
	return s.form
}

// SetValue applies a value-changed event and synchronously revalidates, so
// validation always observes the latest applied value.
func (s *Session) SetValue(name string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.form.Inputs[name]; !ok {
		return
	}
	s.values[name] = values
	s.fieldErrors = Validate(s.form.Inputs, s.values)
}

// SetValues applies a batch of value-changed events in order.
func (s *Session) SetValues(values types.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, vs := range values {
		if _, ok := s.form.Inputs[name]; !ok {
			continue
		}
		s.values[name] = vs
	}
	s.fieldErrors = Validate(s.form.Inputs, s.values)
}

func (s *Session) Values() types.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := types.FormValues{}
	for k, v := range s.values {
		out[k] = append([]string{}, v...)
	}
	return out
}

func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]string{}
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fieldErrors) == 0
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status()
}

func (s *Session) Err() *fperr.ErrorModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Err()
}

// Close tears the session down. In-flight submit completions observed after
// Close do not mutate state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Submit validates and performs the upstream submission, driving the state
// machine. It is idempotent once responded: further submit triggers return
// without invoking the submission protocol again. Submitting against a
// finished or failed descriptor is rejected without a network call.
func (s *Session) Submit(ctx context.Context) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.state.Status() == StatusResponded {
		s.mu.Unlock()
		return
	}
	if s.form.Status.IsTerminal() {
		s.mu.Unlock()
		return
	}

	s.fieldErrors = Validate(s.form.Inputs, s.values)
	if len(s.fieldErrors) > 0 {
		s.mu.Unlock()
		return
	}

	if err := s.state.BeginSubmit(); err != nil {
		s.mu.Unlock()
		return
	}

	submission := s.submissionRecord()
	s.mu.Unlock()

	// network call outside the lock; the session stays interactive
	_, err := s.submitter.SubmitForm(ctx, s.form.ResponseURL, submission)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		// session unmounted while the call was in flight
		slog.Debug("discarding submit completion for closed session", "session", s.id)
		return
	}

	if err != nil {
		e := fperr.FromError(err)
		if serr := s.state.Fail(e); serr != nil {
			slog.Error("submission state error", "session", s.id, "error", serr)
		}
		return
	}
	if serr := s.state.Succeed(); serr != nil {
		slog.Error("submission state error", "session", s.id, "error", serr)
	}
}

// MaybeAutoSubmit fires the auto-submit policy: at most once per mount,
// only while valid, pending and error-free. The guard flag stays set even
// if the submission fails, so re-renders never re-trigger it.
func (s *Session) MaybeAutoSubmit(ctx context.Context) {
	s.mu.Lock()
	if !s.autoSubmit ||
		s.autoSubmitted ||
		s.closed ||
		len(s.fieldErrors) > 0 ||
		s.state.Status() != StatusPending ||
		s.form.Status.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.autoSubmitted = true
	s.mu.Unlock()

	s.Submit(ctx)
}

// AutoSubmit reports whether this session uses the implicit-submit
// presentation path.
func (s *Session) AutoSubmit() bool {
	return s.autoSubmit
}

// submissionRecord normalizes the current values into the wire record: the
// correlation identifiers echoed verbatim plus the value sequence of every
// submittable input, in input name order. Callers must hold s.mu.
func (s *Session) submissionRecord() types.FormSubmission {
	names := make([]string, 0, len(s.form.Inputs))
	for name := range s.form.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	var values []string
	for _, name := range names {
		if !s.form.Inputs[name].Submittable() {
			continue
		}
		values = append(values, s.values[name]...)
	}
	if values == nil {
		values = []string{}
	}

	return types.FormSubmission{
		ExecutionID:         s.form.ExecutionID,
		PipelineExecutionID: s.form.PipelineExecutionID,
		StepExecutionID:     s.form.StepExecutionID,
		Values:              values,
	}
}
