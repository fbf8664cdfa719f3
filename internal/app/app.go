package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"finmodel/internal/api"
	"finmodel/internal/config"
	"finmodel/internal/services"
	"finmodel/internal/store"
)

// App wires the backend client, lifecycle tracker and supporting services for
// one CLI or server session.
type App struct {
	Config  *config.Config
	Client  *api.Client
	Tracker *services.Tracker
	Market  *services.MarketService
	Files   *services.ArtifactService
	History *store.HistoryStore
}

// NewApp initializes the application from loaded configuration.
func NewApp(cfg *config.Config) (*App, error) {
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, fmt.Errorf("resolve backend origin: %w", err)
	}

	client, err := api.NewClient(baseURL, cfg.HTTPTimeout())
	if err != nil {
		return nil, fmt.Errorf("init backend client: %w", err)
	}

	app := &App{
		Config: cfg,
		Client: client,
		Market: services.NewMarketService(client),
		Files:  services.NewArtifactService(client, cfg.Output.Dir),
	}

	trackerOpts := []services.TrackerOption{
		services.WithPollInterval(cfg.PollInterval()),
	}

	// Local history is best effort; the lifecycle works without it.
	if cfg.History.Path != "" {
		history, err := store.OpenHistory(cfg.History.Path)
		if err != nil {
			log.WithError(err).Warn("submission history disabled")
		} else {
			app.History = history
			trackerOpts = append(trackerOpts, services.WithHistory(history))
		}
	}

	app.Tracker = services.NewTracker(client, trackerOpts...)

	log.WithField("backend", baseURL).Debug("application initialized")
	return app, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	a.Tracker.Discard()
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}
