// Package webui serves the share and reset views on a loopback address.
package webui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"anime.bike/mastoshare/pkg/i18n"
	"anime.bike/mastoshare/pkg/logging"
	"anime.bike/mastoshare/pkg/metrics"
	"anime.bike/mastoshare/pkg/prefs"
	"anime.bike/mastoshare/pkg/share"
)

//go:embed templates/*.html
var templateFS embed.FS

// PreferenceStore is the subset of *prefs.Store used by the views.
type PreferenceStore interface {
	Get(ctx context.Context) (*prefs.Record, error)
	Raw(ctx context.Context) ([]byte, error)
	Remove(ctx context.Context) error
	SetLanguage(ctx context.Context, lang string) (*prefs.Record, error)
}

// Options configures a Server. Gateway and Store are required. The gateway
// must navigate with navigation.Redirect so that submissions answer the
// request with a redirect.
type Options struct {
	Gateway *share.Gateway
	Store   PreferenceStore
	Logger  logging.Logger
	// Metrics, when set, times every view request.
	Metrics *metrics.Metrics
	// Gatherer, when set, is exposed on /metrics.
	Gatherer prometheus.Gatherer
}

type Server struct {
	gateway   *share.Gateway
	store     PreferenceStore
	logger    logging.Logger
	metrics   *metrics.Metrics
	templates *template.Template
	router    *mux.Router
}

func New(opts Options) (*Server, error) {
	if opts.Gateway == nil {
		return nil, errors.New("webui: gateway is required")
	}
	if opts.Store == nil {
		return nil, errors.New("webui: store is required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"t": func(tag language.Tag, key i18n.Key, args ...any) string {
			return i18n.T(tag, key, args...)
		},
		"code": i18n.Code,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		gateway:   opts.Gateway,
		store:     opts.Store,
		logger:    logging.NoopIfNil(opts.Logger),
		metrics:   opts.Metrics,
		templates: tmpl,
	}

	router := mux.NewRouter()
	router.Use(noCacheMW, loopbackHostMW, sameOriginMW)
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/share?"+r.URL.RawQuery, http.StatusSeeOther)
	}).Methods(http.MethodGet)
	router.HandleFunc("/share", s.getShare).Methods(http.MethodGet)
	router.HandleFunc("/share", s.postShare).Methods(http.MethodPost)
	router.HandleFunc("/reset", s.getReset).Methods(http.MethodGet)
	router.HandleFunc("/reset", s.postReset).Methods(http.MethodPost)
	router.HandleFunc("/language", s.postLanguage).Methods(http.MethodPost)
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	s.router = router

	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func noCacheMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

type nopObserver struct{}

func (nopObserver) Finish() {}

func (s *Server) observe(label string) metrics.RequestObserver {
	if s.metrics == nil {
		return nopObserver{}
	}
	return s.metrics.StartWebRequestIn(label)
}

// language picks the view language from the request and the stored preference.
func (s *Server) language(r *http.Request) language.Tag {
	preferred := ""
	if rec, err := s.store.Get(r.Context()); err == nil && rec != nil {
		preferred = rec.Language
	}
	return i18n.ResolveTag(r, preferred)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Errorf("Failed to render %s: %v", name, err)
	}
}
