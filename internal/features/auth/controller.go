package auth

import (
	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService AuthService
	Logger      *zap.Logger
}

func NewAuthController(authService AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{
		AuthService: authService,
		Logger:      logger,
	}
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Authenticate and receive a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200  {object} map[string]interface{}
// @Router       /api/v2/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	token, usr, err := ctrl.AuthService.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		ctrl.Logger.Info("login rejected", zap.String("login", req.Login))
		return common_api.Error(c, err)
	}

	return common_api.Success(c, fiber.Map{
		"token": token,
		"user":  usr,
	})
}

// Me godoc
// @Summary      Current principal's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object} user.User
// @Router       /api/v2/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	usr, err := ctrl.AuthService.Me(c.UserContext())
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, usr)
}
