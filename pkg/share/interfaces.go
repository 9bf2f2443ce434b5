package share

import (
	"context"
	"net/url"
	"time"

	"anime.bike/mastoshare/pkg/prefs"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../mocks/mock_share.go -package mocks anime.bike/mastoshare/pkg/share ProfileResolver,Navigator

// ProfileResolver turns a WebFinger discovery URL into a profile URL.
// Any error is reported to the user as lookup-failed.
type ProfileResolver interface {
	Resolve(ctx context.Context, discoveryURL *url.URL) (*url.URL, error)
}

// Navigator moves the user to target.
type Navigator interface {
	Navigate(ctx context.Context, target *url.URL) error
}

// PreferenceStore is the subset of *prefs.Store used by the gateway.
type PreferenceStore interface {
	Get(ctx context.Context) (*prefs.Record, error)
	UpdateOrInsert(ctx context.Context, update func(prefs.Record) prefs.Record, insert func() prefs.Record) (*prefs.Record, error)
}

// Clock returns the current time.
type Clock func() time.Time
