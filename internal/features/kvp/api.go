package kvp

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SuggestionApi struct {
	Controller *SuggestionController
	config     *config.Config
}

func NewSuggestionApi(controller *SuggestionController, config *config.Config) *SuggestionApi {
	return &SuggestionApi{
		Controller: controller,
		config:     config,
	}
}

func (a *SuggestionApi) Setup(app *fiber.App) {
	kvp := app.Group("/api/v2/kvp", middleware.AuthMiddleware(a.config.SkipAuth))

	kvp.Get("/export", a.Controller.Export)
	kvp.Get("/attachments/:attachmentId", a.Controller.DownloadAttachment)

	kvp.Get("/", a.Controller.ListSuggestions)
	kvp.Post("/", a.Controller.CreateSuggestion)
	kvp.Get("/:id", a.Controller.GetSuggestion)
	kvp.Put("/:id", a.Controller.UpdateSuggestion)
	kvp.Delete("/:id", a.Controller.ArchiveSuggestion)
	kvp.Put("/:id/status", middleware.AdminOrRoot(), a.Controller.ChangeStatus)
	kvp.Post("/:id/attachments", a.Controller.UploadAttachment)
	kvp.Get("/:id/attachments", a.Controller.ListAttachments)
}
