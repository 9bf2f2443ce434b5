package webfinger

// Response represents a WebFinger (JRD) response
type Response struct {
	Subject string   `json:"subject"`
	Aliases []string `json:"aliases,omitempty"`
	Links   []Link   `json:"links,omitempty"`
}

// Link represents a link in a WebFinger response
type Link struct {
	Rel        string         `json:"rel"`
	Type       string         `json:"type,omitempty"`
	Href       string         `json:"href,omitempty"`
	Template   string         `json:"template,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}
