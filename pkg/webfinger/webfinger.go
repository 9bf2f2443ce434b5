package webfinger

// NewResponse creates an empty WebFinger response for the given subject
func NewResponse(subject string) *Response {
	return &Response{
		Subject: subject,
		Aliases: make([]string, 0),
		Links:   make([]Link, 0),
	}
}

// AddAlias appends an alias. Mastodon lists the profile page URL first.
func (r *Response) AddAlias(alias string) {
	r.Aliases = append(r.Aliases, alias)
}

// AddProfilePageLink adds a profile-page link pointing at href
func (r *Response) AddProfilePageLink(href string) {
	r.Links = append(r.Links, Link{
		Rel:  RelProfilePage,
		Type: "text/html",
		Href: href,
	})
}

// AddSelfLink adds a self link pointing at the ActivityPub actor
func (r *Response) AddSelfLink(href string) {
	r.Links = append(r.Links, Link{
		Rel:  RelSelf,
		Type: TypeActivityJSON,
		Href: href,
	})
}

// FirstAlias returns the first alias, or "" when there is none
func (r *Response) FirstAlias() string {
	if len(r.Aliases) == 0 {
		return ""
	}
	return r.Aliases[0]
}

// GetLink finds and returns the first link with the given relation
func (r *Response) GetLink(rel string) *Link {
	for i := range r.Links {
		if r.Links[i].Rel == rel {
			return &r.Links[i]
		}
	}
	return nil
}
