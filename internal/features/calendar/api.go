package calendar

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EventApi struct {
	Controller *EventController
	config     *config.Config
}

func NewEventApi(controller *EventController, config *config.Config) *EventApi {
	return &EventApi{
		Controller: controller,
		config:     config,
	}
}

func (a *EventApi) Setup(app *fiber.App) {
	calendar := app.Group("/api/v2/calendar", middleware.AuthMiddleware(a.config.SkipAuth))

	calendar.Get("/export", a.Controller.Export)

	calendar.Get("/", a.Controller.ListEvents)
	calendar.Post("/", middleware.AdminOrRoot(), a.Controller.CreateEvent)
	calendar.Get("/:id", a.Controller.GetEvent)
	calendar.Put("/:id", middleware.AdminOrRoot(), a.Controller.UpdateEvent)
	calendar.Delete("/:id", middleware.AdminOrRoot(), a.Controller.DeleteEvent)
}
