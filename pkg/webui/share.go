package webui

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"anime.bike/mastoshare/pkg/form"
	"anime.bike/mastoshare/pkg/i18n"
	"anime.bike/mastoshare/pkg/navigation"
	"anime.bike/mastoshare/pkg/share"
)

// Share form fields.
const (
	FieldUserID       = "userId"
	FieldSaveUserID   = "saveUserId"
	FieldAutoRedirect = "enableAutoJump"
)

type shareData struct {
	Title        i18n.Key
	Lang         language.Tag
	Languages    []language.Tag
	Path         string
	UserID       string
	SaveUserID   bool
	AutoRedirect bool
	Preview      string
	ResetURL     string
	View         form.View
}

func (s *Server) getShare(w http.ResponseWriter, r *http.Request) {
	defer s.observe("share").Finish()
	ctx := r.Context()

	f := form.New()
	payload := share.PayloadFromQuery(r.URL.Query())
	if payload.Empty() {
		f.CriticalError(i18n.MissingPostData)
	} else {
		decision, err := s.gateway.AutoRedirect(navigation.WithResponse(ctx, w, r), payload)
		switch {
		case err != nil:
			f.Fail(err)
		case decision == share.RedirectNavigated:
			return
		case decision == share.RedirectExpired:
			f.AutoRedirectExpired(i18n.AutoRedirectExpired)
		}
	}

	d := s.gateway.Defaults(ctx)
	data := s.newShareData(r, i18n.ResolveTag(r, d.Language), payload)
	data.UserID = d.Identifier
	data.SaveUserID = d.SaveIdentifier || d.RedirectAutomatically
	data.AutoRedirect = d.RedirectAutomatically
	data.View = f.View(strings.TrimSpace(data.UserID) != "")

	status := http.StatusOK
	if state, _ := f.State(); state == form.StateCriticalError {
		status = http.StatusBadRequest
	}
	s.render(w, status, "share.html", data)
}

func (s *Server) postShare(w http.ResponseWriter, r *http.Request) {
	defer s.observe("share").Finish()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	payload := share.PayloadFromQuery(r.URL.Query())
	sub := share.Submission{
		Identifier:            r.PostForm.Get(FieldUserID),
		SaveIdentifier:        r.PostForm.Get(FieldSaveUserID) != "",
		RedirectAutomatically: r.PostForm.Get(FieldAutoRedirect) != "",
	}

	f := form.New()
	err := f.Submit(navigation.WithResponse(r.Context(), w, r), func(ctx context.Context) error {
		_, err := s.gateway.Submit(ctx, payload, sub)
		return err
	})
	if err == nil {
		return
	}

	data := s.newShareData(r, s.language(r), payload)
	data.UserID = sub.Identifier
	data.SaveUserID = sub.SaveIdentifier || sub.RedirectAutomatically
	data.AutoRedirect = sub.RedirectAutomatically
	data.View = f.View(strings.TrimSpace(sub.Identifier) != "")

	status := http.StatusUnprocessableEntity
	if state, _ := f.State(); state == form.StateCriticalError {
		status = http.StatusBadRequest
	}
	s.render(w, status, "share.html", data)
}

func (s *Server) newShareData(r *http.Request, tag language.Tag, payload *share.Payload) shareData {
	return shareData{
		Title:     i18n.ShareTitle,
		Lang:      tag,
		Languages: i18n.Supported(),
		Path:      r.URL.RequestURI(),
		Preview:   previewText(payload),
		ResetURL:  baseURL(r) + "/reset",
	}
}

// previewText is the post exactly as it will be sent; the template escapes it.
func previewText(p *share.Payload) string {
	return strings.TrimSpace(p.Preview())
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
