package adminperm

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	Controller *PermissionController
	config     *config.Config
}

func NewPermissionApi(controller *PermissionController, config *config.Config) *PermissionApi {
	return &PermissionApi{
		Controller: controller,
		config:     config,
	}
}

func (a *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/v2/admin-permissions", middleware.AuthMiddleware(a.config.SkipAuth))

	perms.Get("/my", a.Controller.GetMyPermissions)

	// Everything below manages other admins' grants.
	perms.Get("/:adminId", middleware.RootOnly(), a.Controller.GetAdminPermissions)
	perms.Post("/", middleware.RootOnly(), a.Controller.SetPermissions)
	perms.Post("/bulk", middleware.RootOnly(), a.Controller.BulkUpdate)
	perms.Delete("/:adminId/departments/:departmentId", middleware.RootOnly(), a.Controller.RemoveDepartmentPermission)
	perms.Delete("/:adminId/groups/:groupId", middleware.RootOnly(), a.Controller.RemoveGroupPermission)
	perms.Get("/:adminId/check/:departmentId/:level?", middleware.RootOnly(), a.Controller.CheckAccess)
}
