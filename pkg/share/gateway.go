// Package share resolves a Mastodon identifier to the user's instance and
// hands the post over to that instance's share page.
package share

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"anime.bike/mastoshare/pkg/identifier"
	"anime.bike/mastoshare/pkg/logging"
	"anime.bike/mastoshare/pkg/prefs"
)

// Gateway composes the identifier parser, the WebFinger resolver and the
// preference store. Build one with NewBuilder.
type Gateway struct {
	store     PreferenceStore
	resolver  ProfileResolver
	navigator Navigator
	clock     Clock
	expiry    time.Duration
	logger    logging.Logger
	hooks     Hooks
}

// Resolution is a successfully resolved identifier.
type Resolution struct {
	Identifier   *identifier.Identifier
	ProfileURL   *url.URL
	ViaWebFinger bool
}

// Origin returns the scheme and host of the profile URL.
func (r Resolution) Origin() *url.URL {
	return Origin(r.ProfileURL)
}

// Submission holds the user's choices on the share form.
type Submission struct {
	Identifier            string
	SaveIdentifier        bool
	RedirectAutomatically bool
}

// RedirectDecision is the outcome of an auto-redirect check.
type RedirectDecision int

const (
	// RedirectNone means the form has to be shown.
	RedirectNone RedirectDecision = iota
	// RedirectNavigated means the user was sent to the stored instance.
	RedirectNavigated
	// RedirectExpired means auto-redirect is enabled but has expired.
	RedirectExpired
)

func (d RedirectDecision) String() string {
	switch d {
	case RedirectNavigated:
		return "navigated"
	case RedirectExpired:
		return "expired"
	default:
		return "none"
	}
}

// FormDefaults seeds the share form from stored preferences.
type FormDefaults struct {
	Identifier            string
	SaveIdentifier        bool
	RedirectAutomatically bool
	Language              string
}

// Resolve turns raw into a profile URL, going through WebFinger for handles.
func (g *Gateway) Resolve(ctx context.Context, raw string) (*Resolution, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, g.fail(newError(CodeInputRequired, nil))
	}

	id, err := identifier.Parse(raw)
	if err != nil {
		return nil, g.fail(newError(CodeInvalidFormat, err))
	}

	res := &Resolution{Identifier: id}
	switch id.Kind {
	case identifier.KindProfileURL:
		res.ProfileURL = id.ProfileURL
	case identifier.KindHandle:
		g.logger.Debugf("Resolving %s through %s", id.Resource(), id.DiscoveryURL)
		profileURL, err := g.resolver.Resolve(ctx, id.DiscoveryURL)
		if err != nil {
			return nil, g.fail(newError(CodeLookupFailed, err))
		}
		res.ProfileURL = profileURL
		res.ViaWebFinger = true
	}

	g.logger.Infof("Resolved %s to %s", raw, res.ProfileURL)
	g.hooks.callOnResolved(*res)
	return res, nil
}

// Submit resolves the identifier, stores the user's choices when asked to
// and navigates to the instance's share page. It returns the target URL.
func (g *Gateway) Submit(ctx context.Context, p *Payload, sub Submission) (*url.URL, error) {
	if p.Empty() {
		return nil, g.fail(newError(CodeMissingPostData, nil))
	}

	res, err := g.Resolve(ctx, sub.Identifier)
	if err != nil {
		return nil, err
	}

	// Auto-redirect needs a stored profile, so it implies saving.
	if sub.SaveIdentifier || sub.RedirectAutomatically {
		g.save(ctx, res, sub.RedirectAutomatically)
	}

	target := TargetURL(res.Origin(), p)
	if err := g.navigate(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// AutoRedirect navigates to the stored instance when the stored record
// allows it. An expired record is reported but not re-armed.
func (g *Gateway) AutoRedirect(ctx context.Context, p *Payload) (RedirectDecision, error) {
	if p.Empty() {
		return RedirectNone, g.fail(newError(CodeMissingPostData, nil))
	}

	rec, err := g.store.Get(ctx)
	if err != nil {
		return RedirectNone, err
	}

	decision := RedirectNone
	switch prefs.RedirectStatusOf(rec, g.clock()) {
	case prefs.RedirectExpired:
		g.logger.Infof("Auto-redirect expired; waiting for a new submission")
		decision = RedirectExpired
	case prefs.RedirectActive:
		profileURL, ok := storedProfile(rec)
		if !ok {
			g.logger.Warnf("Auto-redirect enabled but no usable profile URL is stored")
			break
		}
		if err := g.navigate(ctx, TargetURL(Origin(profileURL), p)); err != nil {
			return RedirectNone, err
		}
		decision = RedirectNavigated
	}

	g.hooks.callOnAutoRedirect(decision)
	return decision, nil
}

// Defaults returns the initial form values: the stored handle (or profile
// URL), save checked when something is stored, and the stored redirect flag.
func (g *Gateway) Defaults(ctx context.Context) FormDefaults {
	rec, err := g.store.Get(ctx)
	if err != nil {
		g.logger.Warnf("Failed to read preferences: %v", err)
		return FormDefaults{}
	}
	if rec == nil {
		return FormDefaults{}
	}

	d := FormDefaults{Language: rec.Language}
	switch {
	case rec.PrimaryMastodonUserID != "":
		d.Identifier = rec.PrimaryMastodonUserID
	case rec.PrimaryMastodonProfileURL != "":
		d.Identifier = rec.PrimaryMastodonProfileURL
	}
	d.SaveIdentifier = d.Identifier != ""
	if rec.ShareConfig != nil {
		d.RedirectAutomatically = rec.ShareConfig.RedirectAutomatically
	}
	return d
}

func (g *Gateway) save(ctx context.Context, res *Resolution, redirect bool) {
	apply := func(r prefs.Record) prefs.Record {
		if res.ViaWebFinger {
			r.PrimaryMastodonUserID = res.Identifier.Raw
		}
		r.PrimaryMastodonProfileURL = res.ProfileURL.String()
		r.ShareConfig = &prefs.ShareConfig{
			RedirectAutomatically: redirect,
			ExpiredAtMs:           prefs.ExpiresAt(g.clock(), g.expiry),
		}
		return r
	}

	rec, err := g.store.UpdateOrInsert(ctx, apply, func() prefs.Record {
		return apply(prefs.NewRecord())
	})
	if err != nil {
		// The share itself still goes ahead.
		g.logger.Warnf("Failed to save preferences: %v", err)
		return
	}
	g.hooks.callOnSaved(*rec)
}

func (g *Gateway) navigate(ctx context.Context, target *url.URL) error {
	g.hooks.callOnNavigate(target)
	g.logger.Infof("Navigating to %s", target)
	if err := g.navigator.Navigate(ctx, target); err != nil {
		return fmt.Errorf("navigate to %s: %w", target.Host, err)
	}
	return nil
}

func (g *Gateway) fail(err *Error) *Error {
	if err.Critical() {
		g.logger.Errorf("Share failed: %v", err)
	} else {
		g.logger.Warnf("Share failed: %v", err)
	}
	g.hooks.callOnFailed(err)
	return err
}

func storedProfile(rec *prefs.Record) (*url.URL, bool) {
	if rec.PrimaryMastodonProfileURL == "" {
		return nil, false
	}
	u, err := url.Parse(rec.PrimaryMastodonProfileURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, false
	}
	return u, true
}
