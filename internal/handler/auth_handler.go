package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/service"
	"github.com/noah-isme/academix-go-api/internal/utils"
)

// AuthHandler wires registration and token lifecycle endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the anonymous auth endpoints.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
	router.Post("/logout", h.logout)
}

// RegisterProtected attaches the endpoints requiring a valid access token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
}

// RegisterManaged attaches the manager-only account creation endpoint.
func (h *AuthHandler) RegisterManaged(router fiber.Router) {
	router.Post("", h.createUser)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Register(c.Context(), nil, payload)
	if err != nil {
		return h.registerError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

func (h *AuthHandler) createUser(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	identity := identityFromContext(c)
	user, err := h.service.Register(c.Context(), &identity, payload)
	if err != nil {
		return h.registerError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

func (h *AuthHandler) registerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrRegistrationForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "not allowed to create this account")
	case errors.Is(err, service.ErrSemesterRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "semester is required for student accounts")
	case errors.Is(err, service.ErrSemesterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "semester not found")
	case isValidationError(err):
		return utils.SendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create account")
	}
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to log in")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to log in")
		}
	}

	return utils.SendSuccess(c, "logged in", result)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Refresh(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid refresh token")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to refresh token")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to refresh token")
		}
	}

	return utils.SendSuccess(c, "token refreshed", result)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.Logout(c.Context(), payload); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid refresh token")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to log out")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to log out")
		}
	}

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.Context(), identityFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to load profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load profile")
		}
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}
