package cli

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/config"
	"github.com/jengzang/hcip-dashboard-go/internal/database"
	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/repository"
	"github.com/jengzang/hcip-dashboard-go/internal/store"
)

// historyFile is the refresh-run database under the cache directory
const historyFile = "history.db"

// app is the wired object graph shared by serve and refresh
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	pipeline  *pipeline.Pipeline
	store     *store.DataStore
	snapshots *repository.SnapshotRepository
	runs      *repository.RefreshRunRepository
	history   *sql.DB
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "pipeline.timezone: %v", err)
	}
	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "create cache dir %s: %v", cfg.Cache.Dir, err)
	}

	history, err := database.Open(ctx, database.Options{Path: filepath.Join(cfg.Cache.Dir, historyFile)})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, history, database.HistorySchema, logger); err != nil {
		_ = history.Close()
		return nil, err
	}

	clk := clock.RealClock{}
	client := &http.Client{}
	renames := cfg.RenameMap()
	sources := make([]ingest.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, ingest.NewSource(src.Name, src.URL, renames, client, cfg.Fetch.Timeout))
	}

	p := pipeline.New(loc, clk, logger)
	snapshots := repository.NewSnapshotRepository(cfg.Cache.Dir, loc, logger)
	runs := repository.NewRefreshRunRepository(history)

	ds := store.New(store.Options{
		Sources:       sources,
		Concurrency:   cfg.Fetch.Concurrency,
		TTL:           cfg.Cache.TTL,
		RetentionDays: cfg.Cache.SnapshotRetentionDays,
		Location:      loc,
		Pipeline:      p,
		Cache:         repository.NewCacheRepository(cfg.Cache.Dir, logger),
		Snapshots:     snapshots,
		Runs:          runs,
		Clock:         clk,
		Logger:        logger,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		pipeline:  p,
		store:     ds,
		snapshots: snapshots,
		runs:      runs,
		history:   history,
	}, nil
}

func (a *app) Close() error {
	return a.history.Close()
}
