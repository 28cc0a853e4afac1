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

// YearSettingsHandler exposes per-year configuration endpoints.
type YearSettingsHandler struct {
	service service.YearSettingsService
	logger  zerolog.Logger
}

// NewYearSettingsHandler constructs the handler.
func NewYearSettingsHandler(service service.YearSettingsService, logger zerolog.Logger) *YearSettingsHandler {
	return &YearSettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "year_settings_handler").Logger(),
	}
}

// Register attaches routes.
func (h *YearSettingsHandler) Register(router fiber.Router) {
	router.Get("/:yearId/settings", h.get)
	router.Put("/:yearId/settings", h.replace)
}

func (h *YearSettingsHandler) get(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Params("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	settings, err := h.service.Get(c.Context(), yearID)
	if err != nil {
		h.logger.Error().Err(err).Str("year_id", yearID).Msg("failed to fetch year settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *YearSettingsHandler) replace(c *fiber.Ctx) error {
	yearID := strings.TrimSpace(c.Params("yearId"))
	if yearID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "yearId is required")
	}

	var req dto.YearSettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := h.service.Replace(c.Context(), yearID, userIDFromContext(c), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			return utils.SendError(c, fiber.StatusBadRequest, "settings payload failed validation")
		}
		h.logger.Error().Err(err).Str("year_id", yearID).Msg("failed to replace year settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save settings")
	}

	return utils.SendSuccess(c, "settings saved", settings)
}
