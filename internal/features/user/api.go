package user

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	Controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{
		Controller: controller,
		config:     config,
	}
}

func (a *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/v2/users", middleware.AuthMiddleware(a.config.SkipAuth))

	users.Post("/", a.Controller.CreateUser)
	users.Get("/", a.Controller.ListUsers)
	users.Get("/:id", a.Controller.GetUser)
	users.Put("/:id", a.Controller.UpdateUser)
	users.Delete("/:id", a.Controller.DeleteUser)
}
