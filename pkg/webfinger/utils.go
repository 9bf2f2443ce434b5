package webfinger

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const acctScheme = "acct:"

// AcctResource returns the acct: URI queried for user@host
func AcctResource(user, host string) string {
	return acctScheme + user + "@" + host
}

// SplitAcct splits an acct:user@host resource into its user and host.
// The user part is everything before the last '@'.
func SplitAcct(resource string) (user, host string, err error) {
	if !strings.HasPrefix(resource, acctScheme) {
		return "", "", fmt.Errorf("unsupported resource format: %s (expected acct: URI)", resource)
	}
	rest := strings.TrimPrefix(resource, acctScheme)
	i := strings.LastIndex(rest, "@")
	if i <= 0 || i == len(rest)-1 {
		return "", "", fmt.Errorf("invalid acct URI format: %s", resource)
	}
	return rest[:i], rest[i+1:], nil
}

// BuildURL constructs a WebFinger URL for the given host and resource
func BuildURL(host, resource string) string {
	u := &url.URL{
		Scheme: "https",
		Host:   host,
		Path:   WellKnownPath,
	}
	q := u.Query()
	q.Set("resource", resource)
	u.RawQuery = q.Encode()
	return u.String()
}

// ParseResponse parses a WebFinger response from a byte slice
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}
