package webfinger

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestResponse_MarshalJSON(t *testing.T) {
	wf := NewResponse("acct:alice@example.social")
	wf.AddAlias("https://example.social/@alice")
	wf.AddProfilePageLink("https://example.social/@alice")

	data, err := json.Marshal(wf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if result["subject"] != "acct:alice@example.social" {
		t.Errorf("Expected subject to be acct:alice@example.social, got %v", result["subject"])
	}

	aliases, ok := result["aliases"].([]interface{})
	if !ok || len(aliases) != 1 || aliases[0] != "https://example.social/@alice" {
		t.Errorf("Unexpected aliases: %v", result["aliases"])
	}

	links, ok := result["links"].([]interface{})
	if !ok || len(links) != 1 {
		t.Fatalf("Expected one link, got %v", result["links"])
	}
	link := links[0].(map[string]interface{})
	if link["rel"] != RelProfilePage {
		t.Errorf("Expected rel %s, got %v", RelProfilePage, link["rel"])
	}
	if _, present := link["properties"]; present {
		t.Errorf("Expected properties to be omitted, got %v", link["properties"])
	}
}

func TestResponse_OmitsEmptyAliases(t *testing.T) {
	data, err := json.Marshal(NewResponse("acct:alice@example.social"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, present := result["aliases"]; present {
		t.Errorf("Expected aliases to be omitted, got %v", result["aliases"])
	}
}

func TestResponse_GetLink(t *testing.T) {
	wf := NewResponse("acct:alice@example.social")
	wf.AddProfilePageLink("https://example.social/@alice")
	wf.AddSelfLink("https://example.social/users/alice")

	self := wf.GetLink(RelSelf)
	if self == nil || self.Href != "https://example.social/users/alice" || self.Type != TypeActivityJSON {
		t.Errorf("Unexpected self link: %+v", self)
	}
	if wf.GetLink("http://example.com/missing") != nil {
		t.Error("Expected nil for missing rel")
	}
}

func TestAcctResource(t *testing.T) {
	if got := AcctResource("alice", "example.social"); got != "acct:alice@example.social" {
		t.Errorf("AcctResource() = %q", got)
	}
}

func TestSplitAcct(t *testing.T) {
	tests := []struct {
		in      string
		user    string
		host    string
		wantErr bool
	}{
		{"acct:alice@example.social", "alice", "example.social", false},
		{"acct:alice@example.social:8443", "alice", "example.social:8443", false},
		{"acct:alice", "", "", true},
		{"acct:@example.social", "", "", true},
		{"acct:alice@", "", "", true},
		{"https://example.social/@alice", "", "", true},
		{"mailto:alice@example.social", "", "", true},
	}
	for _, tt := range tests {
		user, host, err := SplitAcct(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitAcct(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if user != tt.user || host != tt.host {
			t.Errorf("SplitAcct(%q) = %q, %q, want %q, %q", tt.in, user, host, tt.user, tt.host)
		}
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("example.social", "acct:alice@example.social")
	want := "https://example.social/.well-known/webfinger?resource=acct%3Aalice%40example.social"
	if got != want {
		t.Errorf("BuildURL() = %q, want %q", got, want)
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	if _, err := ParseResponse([]byte("<html>")); err == nil {
		t.Error("Expected error for non-JSON body")
	}
}

func newTestServer(t *testing.T, domain string) *httptest.Server {
	t.Helper()
	srv := NewServer(domain, AccountResolverFunc(func(user string) (*Account, error) {
		switch user {
		case "alice":
			return &Account{
				ProfileURL: "https://" + domain + "/@alice",
				ActorURL:   "https://" + domain + "/users/alice",
			}, nil
		case "broken":
			return nil, errors.New("database unavailable")
		}
		return nil, nil
	}))
	mux := http.NewServeMux()
	mux.Handle(WellKnownPath, srv.Handler())
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func query(t *testing.T, base, resource string) *http.Response {
	t.Helper()
	u, _ := url.Parse(base + WellKnownPath)
	u.RawQuery = url.Values{"resource": {resource}}.Encode()
	resp, err := http.Get(u.String())
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_ResolvesAccount(t *testing.T) {
	ts := newTestServer(t, "example.social")

	resp := query(t, ts.URL, "acct:alice@example.social")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != ContentTypeJRD {
		t.Errorf("Expected Content-Type %s, got %s", ContentTypeJRD, ct)
	}
	if cors := resp.Header.Get("Access-Control-Allow-Origin"); cors != "*" {
		t.Errorf("Expected CORS header *, got %q", cors)
	}

	var wf Response
	if err := json.NewDecoder(resp.Body).Decode(&wf); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if wf.Subject != "acct:alice@example.social" {
		t.Errorf("Unexpected subject %q", wf.Subject)
	}
	if wf.FirstAlias() != "https://example.social/@alice" {
		t.Errorf("Expected profile URL as first alias, got %v", wf.Aliases)
	}
	if link := wf.GetLink(RelProfilePage); link == nil || link.Href != "https://example.social/@alice" {
		t.Errorf("Unexpected profile-page link: %+v", link)
	}
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t, "example.social")

	tests := []struct {
		name     string
		resource string
		status   int
	}{
		{"unknown user", "acct:bob@example.social", http.StatusNotFound},
		{"resolver failure", "acct:broken@example.social", http.StatusInternalServerError},
		{"wrong domain", "acct:alice@other.example", http.StatusBadRequest},
		{"not acct", "https://example.social/@alice", http.StatusBadRequest},
		{"no user", "acct:@example.social", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := query(t, ts.URL, tt.resource)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	resp, err := http.Get(ts.URL + WellKnownPath)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing resource, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+WellKnownPath, "text/plain", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", resp.StatusCode)
	}
}
