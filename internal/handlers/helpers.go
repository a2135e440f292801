package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studenthub/backend/internal/services"
	"github.com/studenthub/backend/pkg/utils"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError translates account-service failures into the JSON error
// envelope with the status code each case carries.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return utils.Error(c, fiber.StatusBadRequest, verr.Error())
	}

	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		return utils.Error(c, fiber.StatusBadRequest, services.ErrDuplicateEmail.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.Error(c, fiber.StatusBadRequest, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.Error(c, fiber.StatusForbidden, services.ErrForbidden.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return utils.Error(c, fiber.StatusNotFound, services.ErrUserNotFound.Error())
	case errors.Is(err, services.ErrUpload):
		return utils.Error(c, fiber.StatusInternalServerError, services.ErrUpload.Error())
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
