package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/service"
	"github.com/noah-isme/yearbook-go-api/internal/utils"
)

// AuditLogHandler exposes the admin audit trail endpoints.
type AuditLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditLogHandler constructs the handler.
func NewAuditLogHandler(service service.AuditService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.record)
	router.Delete("/delete", h.deleteOne)
	router.Delete("/delete-all", h.deleteAll)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	req := dto.AuditListRequest{
		Page:         page,
		PageSize:     pageSize,
		UserID:       c.Query("userId"),
		Action:       c.Query("action"),
		TargetType:   c.Query("targetType"),
		SchoolYearID: c.Query("yearId"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit entries")
	}

	return utils.OK(c, result.Items, "audit entries retrieved", fiber.Map{"pagination": result.Pagination})
}

func (h *AuditLogHandler) record(c *fiber.Ctx) error {
	var req dto.AuditEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.Record(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "userId, action, targetType and targetId are required")
		}
		h.logger.Error().Err(err).Msg("failed to record audit entry")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record audit entry")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "audit entry recorded", entry)
}

func (h *AuditLogHandler) deleteOne(c *fiber.Ctx) error {
	id, err := parseQueryInt(c, "id")
	if err != nil || id < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}
	if id == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "id is required")
	}

	if err := h.service.DeleteOne(c.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrAuditEntryNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "audit entry not found")
		}
		h.logger.Error().Err(err).Int("entry_id", id).Msg("failed to delete audit entry")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete audit entry")
	}

	return utils.SendSuccess(c, "audit entry deleted", fiber.Map{"deletedId": id})
}

func (h *AuditLogHandler) deleteAll(c *fiber.Ctx) error {
	result, err := h.service.DeleteAll(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to clear audit log")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to clear audit log")
	}

	message := fmt.Sprintf("deleted %d audit entries", result.DeletedCount)
	if result.DeletedCount == 0 {
		message = "audit log already empty"
	}

	return utils.SendSuccess(c, message, result)
}
