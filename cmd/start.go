package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"delivery-admin/core/loader"
	"delivery-admin/core/logger"
	"delivery-admin/core/middleware/rayid"
	"delivery-admin/feature/catalog"
	"delivery-admin/feature/journal"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "delivery-admin/docs/swagger"
)

// @title Delivery Admin API
// @version 1.0
// @description Administration API for the food-delivery catalog.
// @host localhost:8081
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the admin API server",
	Long:  `Loads the catalog from the remote store and serves the admin HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// A failed initial load is not fatal; the cache fills on the next reload.
		if err := rt.coordinator.LoadAll(ctx); err != nil {
			logg.Warn("Initial catalog load failed", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(catalog.NewFeature(rt.coordinator, logg, rt.cfg.Server.ReadOnly))
		mgr.Register(journal.NewFeature(rt.journal))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", rt.cfg.Server.Port),
				zap.String("remote", rt.cfg.Remote.BaseURL),
				zap.Bool("read_only", rt.cfg.Server.ReadOnly),
			)
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
