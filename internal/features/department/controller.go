package department

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DepartmentController struct {
	DepartmentService DepartmentService
	Logger            *zap.Logger
}

func NewDepartmentController(departmentService DepartmentService, logger *zap.Logger) *DepartmentController {
	return &DepartmentController{
		DepartmentService: departmentService,
		Logger:            logger,
	}
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// CreateDepartment godoc
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        department body CreateDepartmentRequest true "Department payload"
// @Success      201  {object} Department
// @Router       /api/v2/departments [post]
func (ctrl *DepartmentController) CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	dept, err := ctrl.DepartmentService.CreateDepartment(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create department failed", zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, dept)
}

// GetDepartment godoc
// @Summary      Get a department by id
// @Tags         departments
// @Produce      json
// @Param        id path int true "Department ID"
// @Success      200  {object} Department
// @Router       /api/v2/departments/{id} [get]
func (ctrl *DepartmentController) GetDepartment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	dept, err := ctrl.DepartmentService.GetDepartment(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, dept)
}

// ListDepartments godoc
// @Summary      List departments visible to the caller
// @Tags         departments
// @Produce      json
// @Param        includeInactive query bool false "Include inactive departments (root only)"
// @Success      200  {array} Department
// @Router       /api/v2/departments [get]
func (ctrl *DepartmentController) ListDepartments(c *fiber.Ctx) error {
	departments, err := ctrl.DepartmentService.ListDepartments(c.UserContext(), c.QueryBool("includeInactive"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, departments)
}

// UpdateDepartment godoc
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        id path int true "Department ID"
// @Success      200  {object} Department
// @Router       /api/v2/departments/{id} [put]
func (ctrl *DepartmentController) UpdateDepartment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	var req UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	dept, err := ctrl.DepartmentService.UpdateDepartment(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, dept)
}

// DeleteDepartment godoc
// @Summary      Delete a department
// @Tags         departments
// @Produce      json
// @Param        id path int true "Department ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/departments/{id} [delete]
func (ctrl *DepartmentController) DeleteDepartment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	if err := ctrl.DepartmentService.DeleteDepartment(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Department deleted successfully")
}

// CreateGroup godoc
// @Summary      Create a department group
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        group body CreateGroupRequest true "Group payload"
// @Success      201  {object} Group
// @Router       /api/v2/departments/groups [post]
func (ctrl *DepartmentController) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	group, err := ctrl.DepartmentService.CreateGroup(c.UserContext(), req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Created(c, group)
}

// ListGroups godoc
// @Summary      List department groups
// @Tags         departments
// @Produce      json
// @Success      200  {array} Group
// @Router       /api/v2/departments/groups [get]
func (ctrl *DepartmentController) ListGroups(c *fiber.Ctx) error {
	groups, err := ctrl.DepartmentService.ListGroups(c.UserContext())
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, groups)
}

// GetGroupMembers godoc
// @Summary      List the departments in a group
// @Tags         departments
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200  {array} Department
// @Router       /api/v2/departments/groups/{groupId}/members [get]
func (ctrl *DepartmentController) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := paramID(c, "groupId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid group id")
	}

	members, err := ctrl.DepartmentService.GetGroupMembers(c.UserContext(), groupID)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, members)
}

// DeleteGroup godoc
// @Summary      Delete a department group
// @Tags         departments
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/departments/groups/{groupId} [delete]
func (ctrl *DepartmentController) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := paramID(c, "groupId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid group id")
	}

	if err := ctrl.DepartmentService.DeleteGroup(c.UserContext(), groupID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Group deleted successfully")
}

// AddGroupMember godoc
// @Summary      Add a department to a group
// @Tags         departments
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        departmentId path int true "Department ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/departments/groups/{groupId}/members/{departmentId} [post]
func (ctrl *DepartmentController) AddGroupMember(c *fiber.Ctx) error {
	groupID, err := paramID(c, "groupId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid group id")
	}
	departmentID, err := paramID(c, "departmentId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	if err := ctrl.DepartmentService.AddGroupMember(c.UserContext(), groupID, departmentID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Department added to group")
}

// RemoveGroupMember godoc
// @Summary      Remove a department from a group
// @Tags         departments
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        departmentId path int true "Department ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/departments/groups/{groupId}/members/{departmentId} [delete]
func (ctrl *DepartmentController) RemoveGroupMember(c *fiber.Ctx) error {
	groupID, err := paramID(c, "groupId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid group id")
	}
	departmentID, err := paramID(c, "departmentId")
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	if err := ctrl.DepartmentService.RemoveGroupMember(c.UserContext(), groupID, departmentID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Department removed from group")
}
