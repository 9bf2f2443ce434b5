package webfinger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"anime.bike/mastoshare/pkg/logging"
)

// ErrLookup is wrapped by every error returned from Resolver.Resolve.
var ErrLookup = errors.New("webfinger lookup failed")

// ErrNoAliases indicates a response without a usable aliases array.
var ErrNoAliases = errors.New("webfinger response has no aliases")

// Resolver looks up profile URLs through WebFinger.
type Resolver struct {
	client    *http.Client
	userAgent string
	logger    logging.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithHTTPClient sets the HTTP client used for lookups (default http.DefaultClient)
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with lookups
func WithUserAgent(userAgent string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = userAgent
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.NoopIfNil(logger)
	}
}

// NewResolver creates a new WebFinger resolver
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client: http.DefaultClient,
		logger: logging.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchRaw performs a single WebFinger GET and returns the response body.
// Any non-2xx status is an error.
func (r *Resolver) FetchRaw(ctx context.Context, discoveryURL *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrLookup, err)
	}
	req.Header.Set("Accept", ContentTypeJRD+", application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: request returned status %d", ErrLookup, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrLookup, err)
	}
	return body, nil
}

// Resolve fetches discoveryURL and returns the profile URL found in aliases[0].
// There is no retry and no fallback to later aliases.
func (r *Resolver) Resolve(ctx context.Context, discoveryURL *url.URL) (*url.URL, error) {
	r.logger.Debugf("WebFinger: requesting %s", discoveryURL)

	body, err := r.FetchRaw(ctx, discoveryURL)
	if err != nil {
		r.logger.Warnf("WebFinger: %v", err)
		return nil, err
	}

	profileURL, err := ParseProfileURL(body)
	if err != nil {
		r.logger.Warnf("WebFinger: invalid response from %s: %v", discoveryURL.Host, err)
		return nil, err
	}

	r.logger.Debugf("WebFinger: %s resolved to %s", discoveryURL, profileURL)
	return profileURL, nil
}

// ParseProfileURL extracts the profile URL from a WebFinger response body.
func ParseProfileURL(body []byte) (*url.URL, error) {
	wfResp, err := ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}

	alias := wfResp.FirstAlias()
	if alias == "" {
		return nil, fmt.Errorf("%w: %w", ErrLookup, ErrNoAliases)
	}

	profileURL, err := url.Parse(alias)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid alias %q: %w", ErrLookup, alias, err)
	}
	if !profileURL.IsAbs() || profileURL.Host == "" {
		return nil, fmt.Errorf("%w: alias %q is not an absolute URL", ErrLookup, alias)
	}
	return profileURL, nil
}
