package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"anime.bike/mastoshare/pkg/config"
	"anime.bike/mastoshare/pkg/i18n"
	"anime.bike/mastoshare/pkg/logging"
	"anime.bike/mastoshare/pkg/prefs"
	"anime.bike/mastoshare/pkg/prefs/prefs_filesystem"
	"anime.bike/mastoshare/pkg/prefs/prefs_inmemory"
	"anime.bike/mastoshare/pkg/prefs/prefs_sqlite"
	"anime.bike/mastoshare/pkg/share"
	"anime.bike/mastoshare/pkg/webfinger"
)

// app holds what a command needs once config and logging are set up.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	closers []io.Closer
}

// loadConfig applies the global flags on top of the config file and environment.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	return cfg, nil
}

func (g *Globals) open() (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debugf("Loaded config from %s", cfg.Path)
	}
	return &app{cfg: cfg, logger: logger, closers: []io.Closer{closer}}, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// store opens the configured backend. It is closed together with the app.
func (a *app) store(opts ...prefs.StoreOption) (*prefs.Store, error) {
	backend, closer, err := openBackend(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	opts = append([]prefs.StoreOption{
		prefs.WithKey(a.cfg.Storage.Key),
		prefs.WithLogger(a.logger),
	}, opts...)
	return prefs.NewStore(backend, opts...), nil
}

func (a *app) resolver() *webfinger.Resolver {
	return webfinger.NewResolver(
		webfinger.WithUserAgent(a.cfg.UserAgent),
		webfinger.WithLogger(a.logger),
	)
}

func (a *app) gateway(store *prefs.Store, resolver share.ProfileResolver, nav share.Navigator) (*share.Gateway, error) {
	return share.NewBuilder().
		WithStore(store).
		WithResolver(resolver).
		WithNavigator(nav).
		WithRedirectExpiry(a.cfg.RedirectExpiry()).
		WithLogger(a.logger).
		Build()
}

// openBackend returns the storage backend selected by cfg and, for backends
// holding resources, a closer.
func openBackend(cfg *config.Config, logger logging.Logger) (prefs.Backend, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return prefs_inmemory.NewInMemoryStorage(), nil, nil
	case config.BackendSQLite:
		dbFile, err := cfg.DbFile()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(dbFile), 0700); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
		s, err := prefs_sqlite.Open(dbFile, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendFile:
		dir, err := cfg.StorageDir()
		if err != nil {
			return nil, nil, err
		}
		return prefs_filesystem.NewOSFilesystemStorage(dir), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// cliLanguage picks the message language: the stored preference, then $LANG.
func cliLanguage(ctx context.Context, store *prefs.Store) language.Tag {
	if rec, err := store.Get(ctx); err == nil && rec != nil {
		if tag, ok := i18n.ParseTag(rec.Language); ok {
			return tag
		}
	}
	return envLanguage(os.Getenv("LANG"))
}

// envLanguage maps a POSIX locale such as ja_JP.UTF-8 to a supported tag.
func envLanguage(locale string) language.Tag {
	locale, _, _ = strings.Cut(locale, ".")
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return i18n.Default()
	}
	return i18n.Match(locale)
}

// userError puts the translated message in front of a gateway error.
func userError(tag language.Tag, err error) error {
	var se *share.Error
	if !errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("%s (%w)", i18n.T(tag, se.MessageKey()), err)
}
