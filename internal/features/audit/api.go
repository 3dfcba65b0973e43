package audit

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	Controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		Controller: controller,
		config:     config,
	}
}

func (a *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/v2/audit", middleware.AuthMiddleware(a.config.SkipAuth), middleware.RootOnly())

	audit.Get("/", a.Controller.ListLogs)
}
