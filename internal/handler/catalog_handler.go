package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/service"
	"github.com/classboard/classboard-api/internal/utils"
)

// CatalogHandler wires class/section/subject HTTP routes.
type CatalogHandler struct {
	service   service.CatalogService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service service.CatalogService, validate *validator.Validate, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches catalog endpoints to the router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	classes := router.Group("/classes")
	classes.Get("", h.listClasses)
	classes.Post("", h.createClass)
	classes.Patch("/:id", h.updateClass)
	classes.Delete("/:id", h.deleteClass)

	sections := router.Group("/sections")
	sections.Get("", h.listSections)
	sections.Post("", h.createSection)
	sections.Patch("/:id", h.updateSection)
	sections.Delete("/:id", h.deleteSection)

	subjects := router.Group("/subjects")
	subjects.Get("", h.listSubjects)
	subjects.Post("", h.createSubject)
	subjects.Patch("/:id", h.updateSubject)
	subjects.Delete("/:id", h.deleteSubject)
}

func (h *CatalogHandler) listClasses(c *fiber.Ctx) error {
	classes, err := h.service.ListClasses(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *CatalogHandler) createClass(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.CreateClass(requestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *CatalogHandler) updateClass(c *fiber.Ctx) error {
	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.UpdateClass(requestContext(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class updated", class)
}

func (h *CatalogHandler) deleteClass(c *fiber.Ctx) error {
	if err := h.service.DeleteClass(requestContext(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": c.Params("id")})
}

func (h *CatalogHandler) listSections(c *fiber.Ctx) error {
	sections, err := h.service.ListSections(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "sections retrieved", sections)
}

func (h *CatalogHandler) createSection(c *fiber.Ctx) error {
	var payload dto.SectionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.service.CreateSection(requestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "section created", section)
}

func (h *CatalogHandler) updateSection(c *fiber.Ctx) error {
	var payload dto.SectionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.service.UpdateSection(requestContext(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "section updated", section)
}

func (h *CatalogHandler) deleteSection(c *fiber.Ctx) error {
	if err := h.service.DeleteSection(requestContext(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "section deleted", fiber.Map{"id": c.Params("id")})
}

func (h *CatalogHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *CatalogHandler) createSubject(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.service.CreateSubject(requestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *CatalogHandler) updateSubject(c *fiber.Ctx) error {
	var payload dto.SubjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.service.UpdateSubject(requestContext(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "subject updated", subject)
}

func (h *CatalogHandler) deleteSubject(c *fiber.Ctx) error {
	if err := h.service.DeleteSubject(requestContext(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "subject deleted", fiber.Map{"id": c.Params("id")})
}

func (h *CatalogHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCatalogEntryNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "catalog entry not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *CatalogHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
