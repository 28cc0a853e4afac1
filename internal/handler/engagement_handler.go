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

// EngagementHandler exposes the public gallery view/like endpoints.
type EngagementHandler struct {
	service service.EngagementService
	logger  zerolog.Logger
}

// NewEngagementHandler constructs the handler.
func NewEngagementHandler(service service.EngagementService, logger zerolog.Logger) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		logger:  logger.With().Str("component", "engagement_handler").Logger(),
	}
}

// Register attaches routes.
func (h *EngagementHandler) Register(router fiber.Router) {
	router.Get("/views", h.stats)
	router.Post("/views", h.trackView)
	router.Post("/albums/:albumId/like", h.toggleLike)
}

func (h *EngagementHandler) trackView(c *fiber.Ctx) error {
	var req dto.TrackViewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.AlbumID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "albumId is required")
	}

	result, err := h.service.TrackView(c.Context(), req.AlbumID, userIDFromContext(c), c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		h.logger.Error().Err(err).Uint("album_id", req.AlbumID).Msg("failed to track album view")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to track view")
	}

	return utils.SendSuccess(c, "view tracked", result)
}

func (h *EngagementHandler) stats(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("albumIds"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("albumId"))
	}
	if raw == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "albumIds is required")
	}

	albumIDs, err := parseUintList(raw)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(albumIDs) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "albumIds is required")
	}

	stats, err := h.service.GetMultipleStats(c.Context(), albumIDs, userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch album stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}

	if len(stats) == 1 {
		return utils.SendSuccess(c, "album stats retrieved", stats[0])
	}
	return utils.OK(c, stats, "album stats retrieved", fiber.Map{"total": len(stats)})
}

func (h *EngagementHandler) toggleLike(c *fiber.Ctx) error {
	albumID, err := parseUintParam(c, "albumId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "sign in to like albums")
	}

	result, err := h.service.ToggleLike(c.Context(), albumID, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserRequired) {
			return utils.SendError(c, fiber.StatusUnauthorized, "sign in to like albums")
		}
		h.logger.Error().Err(err).Uint("album_id", albumID).Msg("failed to toggle album like")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to toggle like")
	}

	return utils.SendSuccess(c, "like toggled", result)
}
