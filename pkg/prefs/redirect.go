package prefs

import "time"

// RedirectStatus describes whether a stored record allows auto-redirect.
type RedirectStatus int

const (
	RedirectDisabled RedirectStatus = iota
	RedirectActive
	RedirectExpired
)

func (s RedirectStatus) String() string {
	switch s {
	case RedirectActive:
		return "active"
	case RedirectExpired:
		return "expired"
	default:
		return "disabled"
	}
}

// RedirectStatusOf evaluates the auto-redirect policy of rec at now.
// A record is active when redirectAutomatically is set and expiredAtMs is
// absent or strictly in the future.
func RedirectStatusOf(rec *Record, now time.Time) RedirectStatus {
	if rec == nil || rec.ShareConfig == nil || !rec.ShareConfig.RedirectAutomatically {
		return RedirectDisabled
	}
	if exp := rec.ShareConfig.ExpiredAtMs; exp != nil && *exp <= now.UnixMilli() {
		return RedirectExpired
	}
	return RedirectActive
}

// ExpiresAt returns the expiry timestamp in milliseconds for a redirect
// armed at now, or nil when expiry is zero.
func ExpiresAt(now time.Time, expiry time.Duration) *int64 {
	if expiry <= 0 {
		return nil
	}
	ms := now.Add(expiry).UnixMilli()
	return &ms
}
