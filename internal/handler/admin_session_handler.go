package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
	"github.com/noah-isme/yearbook-go-api/internal/service"
	"github.com/noah-isme/yearbook-go-api/internal/utils"
)

// AdminSessionHandler exposes login/logout tracking and session listings.
type AdminSessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewAdminSessionHandler constructs the handler.
func NewAdminSessionHandler(service service.SessionService, logger zerolog.Logger) *AdminSessionHandler {
	return &AdminSessionHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_session_handler").Logger(),
	}
}

// Register attaches routes. trackRouter receives the login/logout endpoints,
// sessionRouter the listing.
func (h *AdminSessionHandler) Register(trackRouter, sessionRouter fiber.Router) {
	trackRouter.Post("/track-login", h.trackLogin)
	trackRouter.Post("/track-logout", h.trackLogout)
	sessionRouter.Get("", h.list)
}

func (h *AdminSessionHandler) trackLogin(c *fiber.Ctx) error {
	var req dto.TrackLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.TrackLogin(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "valid adminEmail is required")
		}
		h.logger.Error().Err(err).Msg("failed to track admin login")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to track login")
	}

	return utils.SendSuccess(c, "login tracked", result)
}

func (h *AdminSessionHandler) trackLogout(c *fiber.Ctx) error {
	var req dto.TrackLogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.TrackLogout(c.Context(), req); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "valid adminEmail is required")
		}
		h.logger.Error().Err(err).Msg("failed to track admin logout")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to track logout")
	}

	return utils.SendSuccess(c, "logout tracked", nil)
}

func (h *AdminSessionHandler) list(c *fiber.Ctx) error {
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

	filter := repository.AdminSessionFilter{
		Page:       page,
		PageSize:   pageSize,
		AdminEmail: strings.ToLower(strings.TrimSpace(c.Query("email"))),
		ActiveOnly: c.QueryBool("active"),
	}

	result, err := h.service.List(c.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list admin sessions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}

	return utils.OK(c, result.Items, "sessions retrieved", fiber.Map{"pagination": result.Pagination})
}
