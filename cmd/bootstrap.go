package cmd

import (
	"context"
	"fmt"

	"delivery-admin/core/config"
	"delivery-admin/core/database"
	"delivery-admin/core/logger"
	"delivery-admin/core/remote"
	"delivery-admin/core/storage"
	"delivery-admin/feature/catalog"
	"delivery-admin/feature/journal"

	"go.uber.org/zap"
)

// runtime bundles the wired components shared by every command.
type runtime struct {
	cfg         *config.Config
	logger      *zap.Logger
	coordinator *catalog.Coordinator
	journal     *journal.Service
}

// bootstrap loads configuration and wires the remote client, the optional
// journal and the catalog coordinator.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := remote.NewClient(cfg.Remote, l)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: l}
	rt.journal = openJournal(ctx, cfg, l)

	opts := catalog.Options{
		Concurrency:      cfg.Remote.Concurrency,
		DeleteNotFoundOK: cfg.Remote.DeleteNotFoundOK,
	}
	var recorder catalog.Recorder
	if rt.journal != nil {
		recorder = rt.journal
	}
	rt.coordinator = catalog.NewCoordinator(catalog.NewGateway(client), opts, recorder, l)

	return rt, nil
}

// openJournal connects the journal database and, when enabled, the export
// bucket. The journal is optional: failures are logged and nil is returned.
func openJournal(ctx context.Context, cfg *config.Config, l *zap.Logger) *journal.Service {
	if !cfg.Database.Enabled {
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("Optional journal database connection failed", zap.Error(err))
		return nil
	}

	var client storage.Client
	if cfg.Storage.Enabled {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Journal export disabled", zap.Error(err))
		} else if err := storage.EnsureBucket(ctx, c, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			l.Warn("Journal export disabled", zap.Error(err))
		} else {
			client = c
		}
	}

	svc := journal.NewService(db, client, cfg.Storage.Bucket, cfg.Storage.JournalPrefix, l)
	if err := svc.Migrate(ctx); err != nil {
		l.Warn("Journal migration failed", zap.Error(err))
		return nil
	}

	l.Info("Journal enabled", zap.String("driver", cfg.Database.Driver), zap.Bool("export", client != nil))
	return svc
}
