package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"anime.bike/mastoshare/pkg/config"
	"anime.bike/mastoshare/pkg/logging"
	"anime.bike/mastoshare/pkg/metrics"
	"anime.bike/mastoshare/pkg/navigation"
	"anime.bike/mastoshare/pkg/prefs"
	"anime.bike/mastoshare/pkg/share"
	"anime.bike/mastoshare/pkg/webfinger"
	"anime.bike/mastoshare/pkg/webui"
)

type ServeCmd struct {
	Listen string `short:"l" help:"Loopback address to listen on (overrides listen_addr)"`
	Open   bool   `short:"o" help:"Open the reset page in a browser once serving"`
}

func (cmd *ServeCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Listen != "" {
		a.cfg.ListenAddr = cmd.Listen
	}

	app := fx.New(
		fx.NopLogger,
		fx.Supply(a.cfg),
		fx.Provide(
			func() logging.Logger { return a.logger },
			newRegistry,
			metrics.New,
			a.provideStore,
			newGateway,
			newViewServer,
			newHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	if cmd.Open {
		target := &url.URL{Scheme: "http", Host: a.cfg.ListenAddr, Path: "/reset"}
		if err := navigation.NewBrowser(os.Stdout, a.logger).Navigate(ctx, target); err != nil {
			a.logger.Warnf("Failed to open %s: %v", target, err)
		}
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func newRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg, reg
}

func (a *app) provideStore(lc fx.Lifecycle, m *metrics.Metrics) (*prefs.Store, error) {
	backend, closer, err := openBackend(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return closer.Close() },
		})
	}
	return prefs.NewStore(backend,
		prefs.WithKey(a.cfg.Storage.Key),
		prefs.WithLogger(a.logger),
		prefs.WithWriteObserver(m.ObserveWrite),
	), nil
}

func newGateway(cfg *config.Config, logger logging.Logger, store *prefs.Store, m *metrics.Metrics) (*share.Gateway, error) {
	resolver := webfinger.NewResolver(
		webfinger.WithUserAgent(cfg.UserAgent),
		webfinger.WithLogger(logger),
	)
	return share.NewBuilder().
		WithStore(store).
		WithResolver(m.InstrumentResolver(resolver)).
		WithNavigator(navigation.Redirect{}).
		WithRedirectExpiry(cfg.RedirectExpiry()).
		WithLogger(logger).
		WithHooks(m.Hooks()).
		Build()
}

func newViewServer(cfg *config.Config, logger logging.Logger, gw *share.Gateway, store *prefs.Store, m *metrics.Metrics, reg *prometheus.Registry) (*webui.Server, error) {
	opts := webui.Options{
		Gateway: gw,
		Store:   store,
		Logger:  logger,
		Metrics: m,
	}
	if cfg.Metrics {
		opts.Gatherer = reg
	}
	return webui.New(opts)
}

func newHTTPServer(cfg *config.Config, logger logging.Logger, lc fx.Lifecycle, handler *webui.Server) (*http.Server, error) {
	if err := checkLoopback(cfg.ListenAddr); err != nil {
		return nil, err
	}
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Infof("Serving share page at http://%v/share", listener.Addr())
			go srv.Serve(listener)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("Shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
	return srv, nil
}

// checkLoopback refuses listen addresses reachable from other machines.
func checkLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("listen_addr: %w", err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen_addr %q is not a loopback address", addr)
	}
	return nil
}
