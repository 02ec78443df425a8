package report

import (
	"strconv"

	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/feature/journal"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves archived reports and the run journal over HTTP.
type Handler struct {
	archive *Archiver
	journal *journal.Recorder
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. The journal recorder may be nil
// when no database is configured.
func NewHandler(archive *Archiver, recorder *journal.Recorder, log *zap.Logger) *Handler {
	return &Handler{archive: archive, journal: recorder, logger: log}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Get("/latest", h.HandleLatest)
	group.Get("/runs", h.HandleRuns)
}

// HandleLatest returns the most recent archived report.
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rep, err := h.archive.Latest(c.Context())
	if err != nil {
		l.Error("Fetching latest report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if rep == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no reports archived yet"})
	}
	return c.JSON(rep)
}

// HandleRuns returns the most recent journal entries.
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if h.journal == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "journal database not configured"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 20
	}

	runs, err := h.journal.LastRuns(c.Context(), limit)
	if err != nil {
		l.Error("Fetching journal runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
