package share

import (
	"net/url"

	"anime.bike/mastoshare/pkg/prefs"
)

// Hooks provides optional callbacks for gateway events
// All hooks are optional - nil hooks will be skipped
type Hooks struct {
	// OnResolved is called once an identifier has a profile URL
	OnResolved func(res Resolution)

	// OnSaved is called after the preference record was written
	OnSaved func(rec prefs.Record)

	// OnNavigate is called before the navigator is invoked
	OnNavigate func(target *url.URL)

	// OnFailed is called for every classified failure
	OnFailed func(err *Error)

	// OnAutoRedirect is called with the outcome of every AutoRedirect check
	OnAutoRedirect func(decision RedirectDecision)
}

// Merge returns hooks that call h first, then other
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnResolved: func(res Resolution) {
			h.callOnResolved(res)
			other.callOnResolved(res)
		},
		OnSaved: func(rec prefs.Record) {
			h.callOnSaved(rec)
			other.callOnSaved(rec)
		},
		OnNavigate: func(target *url.URL) {
			h.callOnNavigate(target)
			other.callOnNavigate(target)
		},
		OnFailed: func(err *Error) {
			h.callOnFailed(err)
			other.callOnFailed(err)
		},
		OnAutoRedirect: func(decision RedirectDecision) {
			h.callOnAutoRedirect(decision)
			other.callOnAutoRedirect(decision)
		},
	}
}

func (h Hooks) callOnResolved(res Resolution) {
	if h.OnResolved != nil {
		h.OnResolved(res)
	}
}

func (h Hooks) callOnSaved(rec prefs.Record) {
	if h.OnSaved != nil {
		h.OnSaved(rec)
	}
}

func (h Hooks) callOnNavigate(target *url.URL) {
	if h.OnNavigate != nil {
		h.OnNavigate(target)
	}
}

func (h Hooks) callOnFailed(err *Error) {
	if h.OnFailed != nil {
		h.OnFailed(err)
	}
}

func (h Hooks) callOnAutoRedirect(decision RedirectDecision) {
	if h.OnAutoRedirect != nil {
		h.OnAutoRedirect(decision)
	}
}
