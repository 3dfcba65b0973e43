package blackboard

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EntryApi struct {
	Controller *EntryController
	config     *config.Config
}

func NewEntryApi(controller *EntryController, config *config.Config) *EntryApi {
	return &EntryApi{
		Controller: controller,
		config:     config,
	}
}

func (a *EntryApi) Setup(app *fiber.App) {
	blackboard := app.Group("/api/v2/blackboard", middleware.AuthMiddleware(a.config.SkipAuth))

	blackboard.Get("/", a.Controller.ListEntries)
	blackboard.Post("/", middleware.AdminOrRoot(), a.Controller.CreateEntry)
	blackboard.Get("/:id", a.Controller.GetEntry)
	blackboard.Put("/:id", middleware.AdminOrRoot(), a.Controller.UpdateEntry)
	blackboard.Delete("/:id", middleware.AdminOrRoot(), a.Controller.ArchiveEntry)
	blackboard.Post("/:id/confirm", a.Controller.ConfirmEntry)
	blackboard.Get("/:id/confirmations", middleware.AdminOrRoot(), a.Controller.ListConfirmations)
}
