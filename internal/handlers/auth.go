package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/studenthub/backend/internal/config"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/services"
	"github.com/studenthub/backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.AccountService
	JWT     config.JWTConfig
}

func NewAuthHandler(service *services.AccountService, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{Service: service, JWT: jwtCfg}
}

// Register handles the multipart registration form. The avatar file is
// required; the service validates everything else.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "avatar file required")
	}

	phoneValue := strings.TrimSpace(c.FormValue("phone"))
	phone, err := strconv.ParseInt(phoneValue, 10, 64)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "phone: must be a positive number")
	}

	input := services.RegisterInput{
		Name:              c.FormValue("name"),
		Email:             c.FormValue("email"),
		Phone:             phone,
		Role:              models.UserRole(c.FormValue("role")),
		Password:          c.FormValue("password"),
		AvatarContentType: fileHeader.Header.Get("Content-Type"),
		AvatarSize:        fileHeader.Size,
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "failed reading avatar file")
	}
	defer file.Close()

	user, err := h.Service.Register(c.Context(), input, file)
	if err != nil {
		return serviceError(c, err)
	}

	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed issuing tokens")
	}

	return attachSession(c, h.JWT, fiber.StatusCreated, user, pair, "user registered")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "email and password required")
	}

	user, err := h.Service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed issuing tokens")
	}

	return attachSession(c, h.JWT, fiber.StatusOK, user, pair, "logged in")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearSession(c)
	return utils.SuccessMessage(c, fiber.StatusOK, "logged out")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "not authenticated")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
