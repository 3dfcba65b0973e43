package adminperm

import (
	"strconv"

	common_api "assixx/internal/common/api"
	"assixx/internal/common/models"
	"assixx/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PermissionController struct {
	PermissionService PermissionService
	Logger            *zap.Logger
}

func NewPermissionController(permissionService PermissionService, logger *zap.Logger) *PermissionController {
	return &PermissionController{
		PermissionService: permissionService,
		Logger:            logger,
	}
}

// GetMyPermissions godoc
// @Summary      Permission summary for the calling admin
// @Tags         admin-permissions
// @Produce      json
// @Success      200  {object} PermissionSummary
// @Router       /api/v2/admin-permissions/my [get]
func (ctrl *PermissionController) GetMyPermissions(c *fiber.Ctx) error {
	claims, ok := utils.ClaimsFromContext(c.UserContext())
	if !ok {
		return common_api.Error(c, models.NewUnauthorized("No authenticated principal"))
	}

	summary, err := ctrl.PermissionService.GetAdminPermissions(c.UserContext(), claims.UserID)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, summary)
}

// GetAdminPermissions godoc
// @Summary      Permission summary for one admin
// @Tags         admin-permissions
// @Produce      json
// @Param        adminId path int true "Admin user ID"
// @Success      200  {object} PermissionSummary
// @Router       /api/v2/admin-permissions/{adminId} [get]
func (ctrl *PermissionController) GetAdminPermissions(c *fiber.Ctx) error {
	adminID, err := strconv.ParseInt(c.Params("adminId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid admin id")
	}

	summary, err := ctrl.PermissionService.GetAdminPermissions(c.UserContext(), adminID)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, summary)
}

// SetPermissions godoc
// @Summary      Replace an admin's department and group grants
// @Tags         admin-permissions
// @Accept       json
// @Produce      json
// @Param        request body ReplacePermissionsRequest true "Replacement set"
// @Success      200  {object} map[string]string
// @Router       /api/v2/admin-permissions [post]
func (ctrl *PermissionController) SetPermissions(c *fiber.Ctx) error {
	var req ReplacePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}
	if req.AdminID == 0 {
		return common_api.ValidationError(c, "adminId is required")
	}

	ctx := c.UserContext()
	if req.DepartmentIDs != nil {
		if err := ctrl.PermissionService.SetDepartmentPermissions(ctx, req.AdminID, req.DepartmentIDs, req.Permissions); err != nil {
			ctrl.Logger.Warn("replace department permissions failed",
				zap.Int64("adminId", req.AdminID), zap.Error(err))
			return common_api.Error(c, err)
		}
	}
	if req.GroupIDs != nil {
		if err := ctrl.PermissionService.SetGroupPermissions(ctx, req.AdminID, req.GroupIDs, req.Permissions); err != nil {
			ctrl.Logger.Warn("replace group permissions failed",
				zap.Int64("adminId", req.AdminID), zap.Error(err))
			return common_api.Error(c, err)
		}
	}

	return common_api.SuccessMessage(c, nil, "Permissions updated successfully")
}

// RemoveDepartmentPermission godoc
// @Summary      Remove one direct department grant
// @Tags         admin-permissions
// @Produce      json
// @Param        adminId path int true "Admin user ID"
// @Param        departmentId path int true "Department ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/admin-permissions/{adminId}/departments/{departmentId} [delete]
func (ctrl *PermissionController) RemoveDepartmentPermission(c *fiber.Ctx) error {
	adminID, err := strconv.ParseInt(c.Params("adminId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid admin id")
	}
	departmentID, err := strconv.ParseInt(c.Params("departmentId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	if err := ctrl.PermissionService.RemoveDepartmentPermission(c.UserContext(), adminID, departmentID); err != nil {
		return common_api.Error(c, err)
	}

	return common_api.SuccessMessage(c, nil, "Permission removed successfully")
}

// RemoveGroupPermission godoc
// @Summary      Remove one group grant
// @Tags         admin-permissions
// @Produce      json
// @Param        adminId path int true "Admin user ID"
// @Param        groupId path int true "Group ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/admin-permissions/{adminId}/groups/{groupId} [delete]
func (ctrl *PermissionController) RemoveGroupPermission(c *fiber.Ctx) error {
	adminID, err := strconv.ParseInt(c.Params("adminId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid admin id")
	}
	groupID, err := strconv.ParseInt(c.Params("groupId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid group id")
	}

	if err := ctrl.PermissionService.RemoveGroupPermission(c.UserContext(), adminID, groupID); err != nil {
		return common_api.Error(c, err)
	}

	return common_api.SuccessMessage(c, nil, "Permission removed successfully")
}

// BulkUpdate godoc
// @Summary      Assign or remove department grants for many admins
// @Tags         admin-permissions
// @Accept       json
// @Produce      json
// @Param        request body BulkUpdateRequest true "Bulk operation"
// @Success      200  {object} BulkUpdateResult
// @Router       /api/v2/admin-permissions/bulk [post]
func (ctrl *PermissionController) BulkUpdate(c *fiber.Ctx) error {
	var req BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	result, err := ctrl.PermissionService.BulkUpdatePermissions(c.UserContext(), req)
	if err != nil {
		return common_api.Error(c, err)
	}

	ctrl.Logger.Info("bulk permission update",
		zap.String("operation", req.Operation),
		zap.Int("total", result.TotalCount),
		zap.Int("succeeded", result.SuccessCount))

	return common_api.Success(c, result)
}

// CheckAccess godoc
// @Summary      Evaluate an admin's access to a department
// @Tags         admin-permissions
// @Produce      json
// @Param        adminId path int true "Admin user ID"
// @Param        departmentId path int true "Department ID"
// @Param        level path string false "Permission level (read, write, delete)"
// @Success      200  {object} AccessResult
// @Router       /api/v2/admin-permissions/{adminId}/check/{departmentId}/{level} [get]
func (ctrl *PermissionController) CheckAccess(c *fiber.Ctx) error {
	adminID, err := strconv.ParseInt(c.Params("adminId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid admin id")
	}
	departmentID, err := strconv.ParseInt(c.Params("departmentId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid department id")
	}

	level := models.PermissionLevel(c.Params("level", string(models.PermissionRead)))

	result, err := ctrl.PermissionService.CheckAccess(c.UserContext(), adminID, departmentID, level)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, result)
}
