package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/marcus/wayfind/internal/api"
	"github.com/marcus/wayfind/internal/config"
	"github.com/marcus/wayfind/internal/db"
	"github.com/marcus/wayfind/internal/logging"
	"github.com/marcus/wayfind/internal/session"
)

// app bundles what most commands need: settings, the local store, the
// session over it and an API client.
type app struct {
	settings config.Settings
	logger   *slog.Logger
	db       *db.DB
	session  *session.Store
	client   *api.Client
	logFile  io.Closer
}

// openApp resolves settings and opens storage. Interactive callers log to a
// file in the config dir since stderr belongs to the terminal UI.
func openApp(interactive bool) (*app, error) {
	settings, err := config.Resolve(getConfigDir())
	if err != nil {
		return nil, err
	}

	a := &app{settings: settings}
	if interactive {
		f, err := logging.OpenFile(settings.ConfigDir)
		if err != nil {
			return nil, err
		}
		a.logFile = f
		a.logger = logging.FromEnv(f, slog.LevelInfo)
	} else {
		a.logger = logging.FromEnv(os.Stderr, slog.LevelWarn)
	}

	a.db, err = db.Open(settings.DataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}

	a.session, err = session.Open(a.db, a.logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.client = api.New(settings.APIURL, api.Options{
		Timeout:   settings.APITimeout,
		RateLimit: settings.RateLimit,
		Logger:    a.logger,
	})
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
