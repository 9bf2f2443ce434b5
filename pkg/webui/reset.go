package webui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"anime.bike/mastoshare/pkg/form"
	"anime.bike/mastoshare/pkg/i18n"
)

type resetData struct {
	Title     i18n.Key
	Lang      language.Tag
	Languages []language.Tag
	Path      string
	RawData   string
	View      form.View
}

func (s *Server) getReset(w http.ResponseWriter, r *http.Request) {
	defer s.observe("reset").Finish()

	raw, err := s.store.Raw(r.Context())
	if err != nil {
		s.logger.Errorf("Failed to read stored preferences: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "reset.html", resetData{
		Title:     i18n.ResetTitle,
		Lang:      s.language(r),
		Languages: i18n.Supported(),
		Path:      r.URL.RequestURI(),
		RawData:   indent(raw),
		View:      form.ResetView(raw != nil, false),
	})
}

func (s *Server) postReset(w http.ResponseWriter, r *http.Request) {
	defer s.observe("reset").Finish()

	if err := s.store.Remove(r.Context()); err != nil {
		s.logger.Errorf("Failed to reset preferences: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/reset", http.StatusSeeOther)
}

func (s *Server) postLanguage(w http.ResponseWriter, r *http.Request) {
	defer s.observe("language").Finish()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	tag, ok := i18n.ParseTag(r.PostForm.Get(i18n.LangParam))
	if !ok {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}
	if _, err := s.store.SetLanguage(r.Context(), i18n.Code(tag)); err != nil {
		s.logger.Errorf("Failed to store language: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, localPath(r.PostForm.Get("return")), http.StatusSeeOther)
}

// localPath keeps redirects on this host.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/share"
	}
	return p
}

func indent(raw []byte) string {
	if raw == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
