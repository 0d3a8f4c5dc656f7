package catalog

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	coordinator *Coordinator
	handler     *Handler
}

// NewFeature creates the catalog feature.
func NewFeature(coordinator *Coordinator, logger *zap.Logger, readOnly bool) *Feature {
	return &Feature{
		coordinator: coordinator,
		handler:     NewHandler(coordinator, logger, readOnly),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
