package auth

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	Controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		Controller: controller,
		config:     config,
	}
}

func (a *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/v2/auth")

	auth.Post("/login", a.Controller.Login)
	auth.Get("/me", middleware.AuthMiddleware(a.config.SkipAuth), a.Controller.Me)
}
