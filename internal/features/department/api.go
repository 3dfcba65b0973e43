package department

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DepartmentApi struct {
	Controller *DepartmentController
	config     *config.Config
}

func NewDepartmentApi(controller *DepartmentController, config *config.Config) *DepartmentApi {
	return &DepartmentApi{
		Controller: controller,
		config:     config,
	}
}

func (a *DepartmentApi) Setup(app *fiber.App) {
	departments := app.Group("/api/v2/departments", middleware.AuthMiddleware(a.config.SkipAuth))

	// Groups first so "groups" is not captured by ":id".
	departments.Get("/groups", a.Controller.ListGroups)
	departments.Post("/groups", middleware.RootOnly(), a.Controller.CreateGroup)
	departments.Get("/groups/:groupId/members", a.Controller.GetGroupMembers)
	departments.Delete("/groups/:groupId", middleware.RootOnly(), a.Controller.DeleteGroup)
	departments.Post("/groups/:groupId/members/:departmentId", middleware.RootOnly(), a.Controller.AddGroupMember)
	departments.Delete("/groups/:groupId/members/:departmentId", middleware.RootOnly(), a.Controller.RemoveGroupMember)

	departments.Get("/", a.Controller.ListDepartments)
	departments.Post("/", middleware.RootOnly(), a.Controller.CreateDepartment)
	departments.Get("/:id", a.Controller.GetDepartment)
	departments.Put("/:id", middleware.RootOnly(), a.Controller.UpdateDepartment)
	departments.Delete("/:id", middleware.RootOnly(), a.Controller.DeleteDepartment)
}
