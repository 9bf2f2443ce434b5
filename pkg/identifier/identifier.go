// Package identifier classifies user-supplied Mastodon identifiers.
//
// An identifier is either a profile URL (https://example.social/@alice),
// whose origin can be used as is, or a mention-format handle
// (@alice@example.social or alice@example.social) that needs a WebFinger
// lookup to find the profile URL.
package identifier

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"anime.bike/mastoshare/pkg/webfinger"
)

var (
	// ErrBadFormat indicates the input is neither a profile URL nor a handle.
	ErrBadFormat = errors.New("identifier does not match @username@example.com")

	// ErrBadDomain indicates a handle whose domain cannot form a WebFinger URL.
	ErrBadDomain = errors.New("identifier domain is not a valid host")
)

// Kind tells how an identifier resolves to a profile.
type Kind int

const (
	// KindProfileURL identifiers already carry the profile origin.
	KindProfileURL Kind = iota + 1
	// KindHandle identifiers must be resolved through WebFinger.
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindProfileURL:
		return "profile-url"
	case KindHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Identifier is a successfully classified input.
type Identifier struct {
	Kind Kind
	Raw  string

	// Set for KindProfileURL.
	ProfileURL *url.URL

	// Set for KindHandle.
	LocalPart    string
	Domain       string
	DiscoveryURL *url.URL
}

// Resource returns the acct: resource of a handle, or "" for profile URLs.
func (id *Identifier) Resource() string {
	if id.Kind != KindHandle {
		return ""
	}
	return webfinger.AcctResource(id.LocalPart, id.Domain)
}

// ParseError reports why an input was rejected. Err is ErrBadFormat or
// ErrBadDomain.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse identifier %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var mentionPattern = regexp.MustCompile(`^@?([^@]+)@(.+)$`)

// Parse classifies raw. It performs no I/O.
func Parse(raw string) (*Identifier, error) {
	if u, ok := parseProfileURL(raw); ok {
		return &Identifier{
			Kind:       KindProfileURL,
			Raw:        raw,
			ProfileURL: u,
		}, nil
	}
	return parseMention(raw)
}

func parseProfileURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" || !strings.HasPrefix(u.Path, "/@") {
		return nil, false
	}
	return u, true
}

func parseMention(raw string) (*Identifier, error) {
	groups := mentionPattern.FindStringSubmatch(raw)
	if groups == nil {
		return nil, &ParseError{Input: raw, Err: ErrBadFormat}
	}
	localPart, domain := groups[1], groups[2]

	if !validHost(domain) {
		return nil, &ParseError{Input: raw, Err: ErrBadDomain}
	}

	discoveryURL, err := url.Parse(webfinger.BuildURL(domain, webfinger.AcctResource(localPart, domain)))
	if err != nil {
		return nil, &ParseError{Input: raw, Err: ErrBadDomain}
	}

	return &Identifier{
		Kind:         KindHandle,
		Raw:          raw,
		LocalPart:    localPart,
		Domain:       domain,
		DiscoveryURL: discoveryURL,
	}, nil
}

// validHost reports whether domain survives as the exact host of an https URL.
func validHost(domain string) bool {
	if strings.ContainsAny(domain, "/?#\\ \t\r\n") {
		return false
	}
	u, err := url.Parse("https://" + domain)
	if err != nil {
		return false
	}
	if u.User != nil || u.Host != domain || u.Hostname() == "" {
		return false
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return false
		}
	}
	return true
}
