package webfinger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Account contains the public addresses of one local account
type Account struct {
	// ProfileURL is the human-readable profile page (e.g., "https://example.social/@alice").
	// It is served as the first alias.
	ProfileURL string

	// ActorURL is the ActivityPub actor (e.g., "https://example.social/users/alice").
	// Set to empty string to omit
	ActorURL string
}

// AccountResolver is a callback interface for looking up accounts
type AccountResolver interface {
	// ResolveAccount returns the account for the given user name
	// Returns nil if the user is not found
	// The user is extracted from the WebFinger resource parameter (e.g., "alice" from "acct:alice@example.social")
	ResolveAccount(user string) (*Account, error)
}

// AccountResolverFunc is a function adapter for AccountResolver
type AccountResolverFunc func(user string) (*Account, error)

func (f AccountResolverFunc) ResolveAccount(user string) (*Account, error) {
	return f(user)
}

// Server answers WebFinger queries the way a Mastodon instance does
type Server struct {
	resolver AccountResolver
	domain   string // Expected domain for resource queries
}

// NewServer creates a new WebFinger server
// domain is the expected domain in resource queries (e.g., "example.social" for "acct:alice@example.social")
func NewServer(domain string, resolver AccountResolver) *Server {
	return &Server{
		domain:   domain,
		resolver: resolver,
	}
}

// ServeHTTP implements http.Handler for the /.well-known/webfinger endpoint
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resource := r.URL.Query().Get("resource")
	if resource == "" {
		http.Error(w, "Missing 'resource' parameter", http.StatusBadRequest)
		return
	}

	user, err := s.parseResource(resource)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := s.resolver.ResolveAccount(user)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if account == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	wf := buildResponse(resource, account)

	w.Header().Set("Content-Type", ContentTypeJRD)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(wf)
}

// parseResource extracts the user from an acct:user@domain resource
func (s *Server) parseResource(resource string) (string, error) {
	user, host, err := SplitAcct(resource)
	if err != nil {
		return "", err
	}
	if s.domain != "" && !strings.EqualFold(host, s.domain) {
		return "", fmt.Errorf("domain mismatch: expected %s, got %s", s.domain, host)
	}
	return user, nil
}

func buildResponse(subject string, account *Account) *Response {
	wf := NewResponse(subject)
	wf.AddAlias(account.ProfileURL)
	if account.ActorURL != "" {
		wf.AddAlias(account.ActorURL)
	}
	wf.AddProfilePageLink(account.ProfileURL)
	if account.ActorURL != "" {
		wf.AddSelfLink(account.ActorURL)
	}
	return wf
}

// Handler returns an http.Handler that can be mounted at /.well-known/webfinger
func (s *Server) Handler() http.Handler {
	return s
}
