package team

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TeamApi struct {
	Controller *TeamController
	config     *config.Config
}

func NewTeamApi(controller *TeamController, config *config.Config) *TeamApi {
	return &TeamApi{
		Controller: controller,
		config:     config,
	}
}

func (a *TeamApi) Setup(app *fiber.App) {
	teams := app.Group("/api/v2/teams", middleware.AuthMiddleware(a.config.SkipAuth))

	teams.Get("/", a.Controller.ListTeams)
	teams.Post("/", middleware.AdminOrRoot(), a.Controller.CreateTeam)
	teams.Get("/:id", a.Controller.GetTeam)
	teams.Put("/:id", middleware.AdminOrRoot(), a.Controller.UpdateTeam)
	teams.Delete("/:id", middleware.AdminOrRoot(), a.Controller.DeleteTeam)
	teams.Get("/:id/members", a.Controller.ListMembers)
	teams.Post("/:id/members/:userId", middleware.AdminOrRoot(), a.Controller.AddMember)
	teams.Delete("/:id/members/:userId", middleware.AdminOrRoot(), a.Controller.RemoveMember)
}
