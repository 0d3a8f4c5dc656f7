// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and registers its own routes.
// The Manager loads enabled features in registration order.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(catalog.NewFeature(coordinator, logger, cfg.Server.ReadOnly))
//	mgr.Register(journal.NewFeature(journalService))
//	if err := mgr.LoadAll(app); err != nil {
//	    logger.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
