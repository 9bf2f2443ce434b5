// Package form tracks the validation and submission state of the share and
// reset forms independently of how they are rendered.
package form

import (
	"context"
	"errors"
	"sync"

	"anime.bike/mastoshare/pkg/i18n"
)

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// State is the error state of a form.
type State int

const (
	StateOK State = iota
	StateRedirectAutomatically
	StateExpiredRedirectAutomatically
	StateInputError
	StateCriticalError
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateRedirectAutomatically:
		return "redirect-automatically"
	case StateExpiredRedirectAutomatically:
		return "expired-redirect-automatically"
	case StateInputError:
		return "input-error"
	case StateCriticalError:
		return "critical-error"
	}
	return "unknown"
}

// Status is the submit indicator shown next to the button.
type Status int

const (
	StatusCanSubmit Status = iota
	StatusValidationFailed
	StatusSubmitting
)

func (s Status) String() string {
	switch s {
	case StatusCanSubmit:
		return "can-submit"
	case StatusValidationFailed:
		return "validation-failed"
	case StatusSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Key returns the message describing s.
func (s Status) Key() i18n.Key {
	switch s {
	case StatusSubmitting:
		return i18n.StatusSubmitting
	case StatusCanSubmit:
		return i18n.StatusReady
	}
	return i18n.StatusInvalid
}

// View is what the renderer needs: whether the button is enabled, which
// message to show (empty for none) and the status indicator.
type View struct {
	SubmitEnabled bool
	MessageKey    i18n.Key
	Status        Status
}

// Classified errors carry their own message and severity.
type Classified interface {
	error
	MessageKey() i18n.Key
	Critical() bool
}

// Form holds the state of one form instance. The zero value is ready to use.
type Form struct {
	mu         sync.Mutex
	state      State
	message    i18n.Key
	submitting bool
	submitted  bool
}

// New returns a form in the ok state.
func New() *Form {
	return &Form{}
}

// State returns the current state and its message.
func (f *Form) State() (State, i18n.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.message
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submitted reports whether a submission has completed successfully.
func (f *Form) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// CriticalError moves to critical-error. It is sticky: the first critical
// message is kept until the form is discarded.
func (f *Form) CriticalError(key i18n.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateCriticalError {
		return
	}
	f.state, f.message = StateCriticalError, key
}

// InputError records a recoverable error.
func (f *Form) InputError(key i18n.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateCriticalError {
		return
	}
	f.state, f.message = StateInputError, key
}

// ChangeInput clears recoverable errors after the user edits a field.
// An expired auto-redirect notice stays visible.
func (f *Form) ChangeInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateCriticalError, StateExpiredRedirectAutomatically:
		return
	}
	f.state, f.message = StateOK, ""
}

// AutoRedirecting marks that navigation is happening without a submission.
func (f *Form) AutoRedirecting() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateCriticalError {
		return
	}
	f.state, f.message = StateRedirectAutomatically, ""
}

// AutoRedirectExpired shows the expired auto-redirect notice.
func (f *Form) AutoRedirectExpired(key i18n.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateCriticalError {
		return
	}
	f.state, f.message = StateExpiredRedirectAutomatically, key
}

// Dismiss hides the expired auto-redirect notice.
func (f *Form) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateExpiredRedirectAutomatically {
		f.state, f.message = StateOK, ""
	}
}

// BeginSubmit takes the submission latch. It fails while another
// submission runs or after a critical error.
func (f *Form) BeginSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting || f.state == StateCriticalError {
		return false
	}
	f.submitting = true
	return true
}

// EndSubmit releases the latch and applies err to the state.
func (f *Form) EndSubmit(err error) {
	f.mu.Lock()
	f.submitting = false
	if err == nil {
		f.submitted = true
	}
	f.mu.Unlock()

	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	f.Fail(err)
}

// Fail applies err to the state: classified errors bring their own message
// and severity, anything else is shown as invalid input.
func (f *Form) Fail(err error) {
	var c Classified
	if errors.As(err, &c) {
		if c.Critical() {
			f.CriticalError(c.MessageKey())
		} else {
			f.InputError(c.MessageKey())
		}
		return
	}
	f.InputError(i18n.StatusInvalid)
}

// Submit runs fn under the submission latch.
func (f *Form) Submit(ctx context.Context, fn func(context.Context) error) error {
	if !f.BeginSubmit() {
		return ErrBusy
	}
	err := fn(ctx)
	f.EndSubmit(err)
	return err
}

// View derives the share form presentation. valid reports whether every
// required field is filled.
func (f *Form) View(valid bool) View {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return View{SubmitEnabled: false, Status: StatusSubmitting}
	}
	switch f.state {
	case StateRedirectAutomatically:
		return View{SubmitEnabled: false, Status: StatusSubmitting}
	case StateExpiredRedirectAutomatically:
		return View{SubmitEnabled: valid, MessageKey: f.message, Status: statusFor(valid)}
	case StateInputError:
		return View{SubmitEnabled: true, MessageKey: f.message, Status: StatusValidationFailed}
	case StateCriticalError:
		return View{SubmitEnabled: false, MessageKey: f.message, Status: StatusValidationFailed}
	}
	if valid {
		return View{SubmitEnabled: true, Status: StatusCanSubmit}
	}
	return View{SubmitEnabled: false, MessageKey: i18n.NotFilled, Status: StatusValidationFailed}
}

func statusFor(valid bool) Status {
	if valid {
		return StatusCanSubmit
	}
	return StatusValidationFailed
}

// ResetView derives the reset form presentation.
func ResetView(hasRecord, submitting bool) View {
	if submitting {
		return View{SubmitEnabled: false, Status: StatusSubmitting}
	}
	if hasRecord {
		return View{SubmitEnabled: true, Status: StatusCanSubmit}
	}
	return View{SubmitEnabled: false, MessageKey: i18n.ResetNoData, Status: StatusValidationFailed}
}
