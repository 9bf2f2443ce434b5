package prefs

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Version is the only record version this package reads or writes.
const Version = 1

// DefaultKey is the storage key the record lives under.
const DefaultKey = "MASTODON_FRONT_GATEWAY_LOCAL_STORAGE_KEY"

// Record is the persisted preference record.
type Record struct {
	Version                   int          `json:"version"`
	Language                  string       `json:"language,omitempty"`
	PrimaryMastodonUserID     string       `json:"primaryMastodonUserId,omitempty"`
	PrimaryMastodonProfileURL string       `json:"primaryMastodonProfileURL,omitempty"`
	ShareConfig               *ShareConfig `json:"shareConfig,omitempty"`
}

// ShareConfig holds the auto-redirect choice. ExpiredAtMs is epoch milliseconds.
type ShareConfig struct {
	RedirectAutomatically bool   `json:"redirectAutomatically"`
	ExpiredAtMs           *int64 `json:"expiredAtMs,omitempty"`
}

// NewRecord returns an empty record at the current version.
func NewRecord() Record {
	return Record{Version: Version}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.ShareConfig != nil {
		sc := *r.ShareConfig
		if sc.ExpiredAtMs != nil {
			v := *sc.ExpiredAtMs
			sc.ExpiredAtMs = &v
		}
		out.ShareConfig = &sc
	}
	return out
}

var recordSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"version":                   {Type: "integer"},
		"language":                  {Type: "string", Enum: []any{"en", "ja"}},
		"primaryMastodonUserId":     {Type: "string"},
		"primaryMastodonProfileURL": {Type: "string"},
		"shareConfig": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"redirectAutomatically": {Type: "boolean"},
				"expiredAtMs":           {Type: "integer"},
			},
			Required: []string{"redirectAutomatically"},
		},
	},
	Required: []string{"version"},
}

var resolvedSchema = mustResolve(recordSchema)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	rs, err := s.Resolve(nil)
	if err != nil {
		panic(err)
	}
	return rs
}

// Decode parses and validates stored bytes.
// Any failure is reported as ErrInvalidRecord.
func Decode(data []byte) (*Record, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &rec, nil
}

// Validate checks data against the record schema and the version literal.
func Validate(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := resolvedSchema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	obj := instance.(map[string]any)
	if v, _ := obj["version"].(float64); v != Version {
		return fmt.Errorf("%w: unsupported version %v", ErrInvalidRecord, obj["version"])
	}
	return nil
}

// Encode serializes r after validating it.
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}
