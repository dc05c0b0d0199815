package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/service"
	"github.com/classboard/classboard-api/internal/utils"
)

// SettingsHandler wires the global settings HTTP routes.
type SettingsHandler struct {
	service   service.SettingsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, validate *validator.Validate, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings endpoints to the router group.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("", h.global)
	router.Put("/forced-task", h.setForcedTask)
}

func (h *SettingsHandler) global(c *fiber.Ctx) error {
	settings, err := h.service.Global(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *SettingsHandler) setForcedTask(c *fiber.Ctx) error {
	var payload dto.ForcedTaskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := h.service.SetForcedTask(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "forced task updated", settings)
}

func (h *SettingsHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
