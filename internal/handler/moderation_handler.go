package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/service"
	"github.com/noah-isme/yearbook-go-api/internal/utils"
)

// ModerationHandler exposes the admin moderation queue endpoints.
type ModerationHandler struct {
	service service.ModerationService
	risk    service.RiskService
	logger  zerolog.Logger
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(service service.ModerationService, risk service.RiskService, logger zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		risk:    risk,
		logger:  logger.With().Str("component", "moderation_handler").Logger(),
	}
}

// Register attaches routes.
func (h *ModerationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/bulk", h.bulk)
	router.Post("/ai-analyze", h.analyze)
	router.Post("/:itemId/approve", h.approve)
	router.Post("/:itemId/reject", h.reject)
}

func (h *ModerationHandler) list(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Query("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	req := dto.ModerationListRequest{
		YearID:   yearID,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Query:    c.Query("q"),
	}

	items, err := h.service.List(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid filters")
		}
		h.logger.Error().Err(err).Str("year_id", yearID).Msg("failed to list moderation queue")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list moderation items")
	}

	meta := fiber.Map{"total": len(items)}
	return utils.OK(c, items, "moderation items retrieved", meta)
}

func (h *ModerationHandler) approve(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Query("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Approve(c.Context(), yearID, itemID, reviewerFromContext(c))
	if err != nil {
		return h.decisionError(c, err, itemID)
	}

	return utils.SendSuccess(c, "moderation item approved", item)
}

func (h *ModerationHandler) reject(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Query("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Reject(c.Context(), yearID, itemID, reviewerFromContext(c), req.Reason)
	if err != nil {
		return h.decisionError(c, err, itemID)
	}

	return utils.SendSuccess(c, "moderation item rejected", item)
}

func (h *ModerationHandler) bulk(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Query("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	var req dto.BulkActionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.BulkAction(c.Context(), yearID, req, reviewerFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidBulkAction), errors.Is(err, service.ErrRejectionReasonRequired):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Str("year_id", yearID).Msg("bulk moderation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "bulk action failed")
	}

	return utils.SendSuccess(c, "bulk action completed", result)
}

func (h *ModerationHandler) analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Type) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "content and type are required")
	}

	analysis := h.risk.AnalyzeWithAI(c.Context(), req.Content, req.Type)
	return utils.OK(c, fiber.Map{"analysis": analysis}, "content analyzed", nil)
}

func (h *ModerationHandler) decisionError(c *fiber.Ctx, err error, itemID uint) error {
	switch {
	case errors.Is(err, service.ErrModerationItemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "moderation item not found")
	case errors.Is(err, service.ErrModerationItemResolved):
		return utils.SendError(c, fiber.StatusBadRequest, "moderation item is not pending")
	case errors.Is(err, service.ErrRejectionReasonRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "rejection reason is required")
	}
	h.logger.Error().Err(err).Uint("item_id", itemID).Msg("moderation decision failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to apply decision")
}
