package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/service"
	"github.com/classboard/classboard-api/internal/utils"
)

// DashboardHandler wires the aggregated dashboard endpoint.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *DashboardHandler) get(c *fiber.Ctx) error {
	query := dto.DashboardQuery{
		Scope:     strings.TrimSpace(c.Query("scope")),
		ClassID:   strings.TrimSpace(c.Query("class_id")),
		SectionID: strings.TrimSpace(c.Query("section_id")),
		SubjectID: strings.TrimSpace(c.Query("subject_id")),
		ActorRole: userRoleFromContext(c),
		TeacherID: userIDFromContext(c),
	}

	response, err := h.service.GetDashboard(requestContext(c), query)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("dashboard aggregation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard computed", response)
}
