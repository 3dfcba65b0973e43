package shift

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ShiftApi struct {
	Controller *ShiftController
	config     *config.Config
}

func NewShiftApi(controller *ShiftController, config *config.Config) *ShiftApi {
	return &ShiftApi{
		Controller: controller,
		config:     config,
	}
}

func (a *ShiftApi) Setup(app *fiber.App) {
	shifts := app.Group("/api/v2/shifts", middleware.AuthMiddleware(a.config.SkipAuth))

	shifts.Get("/", a.Controller.ListPlans)
	shifts.Post("/", middleware.AdminOrRoot(), a.Controller.CreatePlan)
	shifts.Get("/:id", a.Controller.GetPlan)
	shifts.Delete("/:id", middleware.AdminOrRoot(), a.Controller.DeletePlan)
	shifts.Get("/:id/entries", a.Controller.ListEntries)
	shifts.Post("/:id/entries", middleware.AdminOrRoot(), a.Controller.AddEntry)
	shifts.Delete("/:id/entries/:entryId", middleware.AdminOrRoot(), a.Controller.RemoveEntry)
	shifts.Get("/:id/export", a.Controller.Export)
}
