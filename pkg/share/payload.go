package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Query parameters carrying the post to share.
const (
	ParamText = "text"
	ParamURL  = "url"
)

// Payload is the post being shared. At least one field is set; a field
// present with an empty value still counts.
type Payload struct {
	Text *string
	URL  *string
}

// PayloadFromQuery extracts the payload from query parameters. It returns
// nil when neither text nor url is present.
func PayloadFromQuery(q url.Values) *Payload {
	p := &Payload{}
	if _, ok := q[ParamText]; ok {
		v := q.Get(ParamText)
		p.Text = &v
	}
	if _, ok := q[ParamURL]; ok {
		v := q.Get(ParamURL)
		p.URL = &v
	}
	if p.Empty() {
		return nil
	}
	return p
}

// PayloadFromURL extracts the payload from a gateway link such as
// https://gateway.example/?text=Hello&url=https%3A%2F%2Fblog.example%2F
func PayloadFromURL(raw string) (*Payload, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}
	return PayloadFromQuery(u.Query()), nil
}

// NewPayload builds a payload from plain values. Empty strings are treated as absent.
func NewPayload(text, link string) *Payload {
	p := &Payload{}
	if text != "" {
		p.Text = &text
	}
	if link != "" {
		p.URL = &link
	}
	if p.Empty() {
		return nil
	}
	return p
}

// Empty reports whether neither field is present. A nil payload is empty.
func (p *Payload) Empty() bool {
	return p == nil || (p.Text == nil && p.URL == nil)
}

// Query encodes the present fields.
func (p *Payload) Query() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.Text != nil {
		q.Set(ParamText, *p.Text)
	}
	if p.URL != nil {
		q.Set(ParamURL, *p.URL)
	}
	return q
}

// Preview joins the present fields the way the post will read.
func (p *Payload) Preview() string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.Text != nil {
		parts = append(parts, *p.Text)
	}
	if p.URL != nil {
		parts = append(parts, *p.URL)
	}
	return strings.Join(parts, " ")
}

// TargetURL returns <origin>/share with the payload as query.
func TargetURL(origin *url.URL, p *Payload) *url.URL {
	return &url.URL{
		Scheme:   origin.Scheme,
		Host:     origin.Host,
		Path:     "/share",
		RawQuery: p.Query().Encode(),
	}
}

// Origin strips everything but scheme and host from u.
func Origin(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host}
}
