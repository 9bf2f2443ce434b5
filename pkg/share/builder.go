package share

import (
	"fmt"
	"time"

	"anime.bike/mastoshare/pkg/logging"
)

// DefaultRedirectExpiry is how long an armed auto-redirect stays valid.
const DefaultRedirectExpiry = 30 * 24 * time.Hour

// Builder provides a fluent API for constructing a Gateway
type Builder struct {
	store     PreferenceStore
	resolver  ProfileResolver
	navigator Navigator
	clock     Clock
	expiry    time.Duration
	logger    logging.Logger
	hooks     Hooks
}

// NewBuilder creates a new Builder
func NewBuilder() *Builder {
	return &Builder{
		clock:  time.Now,
		expiry: DefaultRedirectExpiry,
		logger: logging.Noop(),
	}
}

// WithStore sets the preference store
func (b *Builder) WithStore(s PreferenceStore) *Builder {
	b.store = s
	return b
}

// WithResolver sets the WebFinger resolver
func (b *Builder) WithResolver(r ProfileResolver) *Builder {
	b.resolver = r
	return b
}

// WithNavigator sets the navigator
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithClock overrides time.Now
func (b *Builder) WithClock(c Clock) *Builder {
	if c != nil {
		b.clock = c
	}
	return b
}

// WithRedirectExpiry sets how long auto-redirect stays armed after a save.
// Zero disables expiry.
func (b *Builder) WithRedirectExpiry(d time.Duration) *Builder {
	b.expiry = d
	return b
}

// WithLogger sets the logger
func (b *Builder) WithLogger(l logging.Logger) *Builder {
	b.logger = logging.NoopIfNil(l)
	return b
}

// WithHooks sets the optional hooks
func (b *Builder) WithHooks(h Hooks) *Builder {
	b.hooks = h
	return b
}

// Build creates and returns a Gateway
// Returns an error if required components are missing
func (b *Builder) Build() (*Gateway, error) {
	if b.store == nil {
		return nil, fmt.Errorf("PreferenceStore is required")
	}
	if b.resolver == nil {
		return nil, fmt.Errorf("ProfileResolver is required")
	}
	if b.navigator == nil {
		return nil, fmt.Errorf("Navigator is required")
	}
	if b.expiry < 0 {
		return nil, fmt.Errorf("redirect expiry must not be negative")
	}

	return &Gateway{
		store:     b.store,
		resolver:  b.resolver,
		navigator: b.navigator,
		clock:     b.clock,
		expiry:    b.expiry,
		logger:    b.logger,
		hooks:     b.hooks,
	}, nil
}

// MustBuild creates and returns a Gateway, panicking if there's an error
func (b *Builder) MustBuild() *Gateway {
	g, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build Gateway: %v", err))
	}
	return g
}
