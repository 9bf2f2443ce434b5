// Package metrics records gateway activity in Prometheus collectors.
package metrics

import (
	"context"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"anime.bike/mastoshare/pkg/share"
)

const namespace = "mastoshare"

// Resolution outcomes.
const (
	OutcomeDirect    = "direct"
	OutcomeWebFinger = "webfinger"
)

type RequestObserver interface {
	Finish()
}

type Metrics struct {
	resolutions      *prometheus.CounterVec
	failures         *prometheus.CounterVec
	webfingerOut     *prometheus.HistogramVec
	webRequestsIn    *prometheus.HistogramVec
	autoRedirects    *prometheus.CounterVec
	preferenceWrites *prometheus.CounterVec
	navigations      prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}

	m.resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Identifiers resolved to a profile URL, by path taken.",
	}, []string{"outcome"})

	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failures_total",
		Help:      "Classified gateway failures, by error code.",
	}, []string{"code"})

	m.webfingerOut = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webfinger_requests_out_duration",
		Help:      "Duration in seconds of WebFinger lookups made.",
	}, []string{"result"})

	m.webRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "web_requests_in_duration",
		Help:      "Duration in seconds of view requests served.",
	}, []string{"label"})

	m.autoRedirects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auto_redirects_total",
		Help:      "Auto-redirect checks, by decision.",
	}, []string{"decision"})

	m.preferenceWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preference_writes_total",
		Help:      "Preference store writes, by operation and result.",
	}, []string{"op", "result"})

	m.navigations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigations_total",
		Help:      "Share targets handed to the navigator.",
	})

	for _, c := range []prometheus.Collector{
		m.resolutions, m.failures, m.webfingerOut, m.webRequestsIn,
		m.autoRedirects, m.preferenceWrites, m.navigations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns gateway hooks feeding the collectors.
func (m *Metrics) Hooks() share.Hooks {
	return share.Hooks{
		OnResolved: func(res share.Resolution) {
			outcome := OutcomeDirect
			if res.ViaWebFinger {
				outcome = OutcomeWebFinger
			}
			m.resolutions.WithLabelValues(outcome).Inc()
		},
		OnFailed: func(err *share.Error) {
			m.failures.WithLabelValues(string(err.Code)).Inc()
		},
		OnNavigate: func(*url.URL) {
			m.navigations.Inc()
		},
		OnAutoRedirect: func(decision share.RedirectDecision) {
			m.autoRedirects.WithLabelValues(decision.String()).Inc()
		},
	}
}

// ObserveWrite matches the prefs.WithWriteObserver callback.
func (m *Metrics) ObserveWrite(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.preferenceWrites.WithLabelValues(op, result).Inc()
}

func (m *Metrics) StartWebRequestIn(label string) RequestObserver {
	return &requestObserver{
		label: label,
		start: time.Now(),
		hgvec: m.webRequestsIn,
	}
}

type requestObserver struct {
	label string
	start time.Time
	hgvec *prometheus.HistogramVec
}

func (ro *requestObserver) Finish() {
	ro.hgvec.WithLabelValues(ro.label).Observe(time.Since(ro.start).Seconds())
}

// Resolver is the lookup being timed by InstrumentResolver.
type Resolver interface {
	Resolve(ctx context.Context, discoveryURL *url.URL) (*url.URL, error)
}

type instrumentedResolver struct {
	next    Resolver
	metrics *Metrics
}

// InstrumentResolver wraps next so every lookup is timed.
func (m *Metrics) InstrumentResolver(next Resolver) Resolver {
	return &instrumentedResolver{next: next, metrics: m}
}

func (r *instrumentedResolver) Resolve(ctx context.Context, discoveryURL *url.URL) (*url.URL, error) {
	start := time.Now()
	profile, err := r.next.Resolve(ctx, discoveryURL)
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.metrics.webfingerOut.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return profile, err
}
