package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/services"
	"github.com/studenthub/backend/pkg/utils"
)

type UsersHandler struct {
	Service *services.AccountService
}

func NewUsersHandler(service *services.AccountService) *UsersHandler {
	return &UsersHandler{Service: service}
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	requester := middleware.GetCurrentUser(c)
	if err := h.Service.Delete(c.Context(), requester, userID); err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "user deleted")
}
