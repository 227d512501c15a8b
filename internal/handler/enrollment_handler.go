package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/service"
	"github.com/noah-isme/academix-go-api/internal/utils"
)

// EnrollmentHandler wires the student semester enrollment endpoint.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the enrollment endpoint to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("", h.enroll)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Enroll(c.Context(), identityFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "only students can enroll")
		case errors.Is(err, service.ErrSemesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "semester not found")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll student")
		}
	}

	return utils.SendSuccess(c, "enrolled", user)
}
