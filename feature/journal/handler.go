package journal

import (
	"errors"

	"delivery-admin/core/logger"
	"delivery-admin/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the journal.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the journal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/journal")
	group.Get("/", h.HandleList)
	group.Post("/export", h.HandleExport)
	group.Get("/exports", h.HandleExports)
	group.Get("/exports/:date", h.HandleReadExport)
	group.Delete("/exports/:date", h.HandleDeleteExport)
}

// HandleList returns the operations recorded on a day.
// @Summary List Journal
// @Description List catalog operations recorded on a day (defaults to today).
// @Tags journal
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {array} Entry
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /journal [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := h.service.ListByDate(c.UserContext(), day)
	if err != nil {
		return h.fail(c, "Journal listing failed", err)
	}
	return c.JSON(entries)
}

// HandleExport uploads a day of the journal to object storage.
// @Summary Export Journal
// @Description Upload the operations of a day as JSON to the configured bucket.
// @Tags journal
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} ExportReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 503 {object} map[string]string "Export disabled"
// @Router /journal/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Export(c.UserContext(), day)
	if err != nil {
		return h.fail(c, "Journal export failed", err)
	}
	return c.JSON(report)
}

// HandleExports lists exported days.
// @Summary List Exports
// @Tags journal
// @Produce json
// @Success 200 {array} string
// @Failure 503 {object} map[string]string "Export disabled"
// @Router /journal/exports [get]
func (h *Handler) HandleExports(c *fiber.Ctx) error {
	days, err := h.service.Exports(c.UserContext())
	if err != nil {
		return h.fail(c, "Journal export listing failed", err)
	}
	return c.JSON(days)
}

// HandleReadExport returns an exported day.
// @Summary Read Export
// @Tags journal
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} Entry
// @Router /journal/exports/{date} [get]
func (h *Handler) HandleReadExport(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := h.service.ReadExport(c.UserContext(), day)
	if err != nil {
		return h.fail(c, "Journal export read failed", err)
	}
	return c.JSON(entries)
}

// HandleDeleteExport removes an exported day.
// @Summary Delete Export
// @Tags journal
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 204
// @Router /journal/exports/{date} [delete]
func (h *Handler) HandleDeleteExport(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.service.DeleteExport(c.UserContext(), day); err != nil {
		return h.fail(c, "Journal export delete failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrExportDisabled) {
		status = fiber.StatusServiceUnavailable
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
