package shift

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ShiftController struct {
	ShiftService ShiftService
	Logger       *zap.Logger
}

func NewShiftController(shiftService ShiftService, logger *zap.Logger) *ShiftController {
	return &ShiftController{
		ShiftService: shiftService,
		Logger:       logger,
	}
}

// CreatePlan godoc
// @Summary      Create a shift plan
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        plan body CreatePlanRequest true "Plan payload"
// @Success      201  {object} Plan
// @Router       /api/v2/shifts [post]
func (ctrl *ShiftController) CreatePlan(c *fiber.Ctx) error {
	var req CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	plan, err := ctrl.ShiftService.CreatePlan(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create shift plan failed", zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, plan)
}

// ListPlans godoc
// @Summary      List shift plans
// @Tags         shifts
// @Produce      json
// @Param        departmentId query int false "Department filter"
// @Success      200  {array} Plan
// @Router       /api/v2/shifts [get]
func (ctrl *ShiftController) ListPlans(c *fiber.Ctx) error {
	var departmentID *int64
	if deptStr := c.Query("departmentId"); deptStr != "" {
		id, err := strconv.ParseInt(deptStr, 10, 64)
		if err != nil {
			return common_api.ValidationError(c, "Invalid departmentId")
		}
		departmentID = &id
	}

	plans, err := ctrl.ShiftService.ListPlans(c.UserContext(), departmentID)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, plans)
}

// GetPlan godoc
// @Summary      Get a shift plan by id
// @Tags         shifts
// @Produce      json
// @Param        id path int true "Plan ID"
// @Success      200  {object} Plan
// @Router       /api/v2/shifts/{id} [get]
func (ctrl *ShiftController) GetPlan(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}

	plan, err := ctrl.ShiftService.GetPlan(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, plan)
}

// DeletePlan godoc
// @Summary      Delete a shift plan
// @Tags         shifts
// @Produce      json
// @Param        id path int true "Plan ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/shifts/{id} [delete]
func (ctrl *ShiftController) DeletePlan(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}

	if err := ctrl.ShiftService.DeletePlan(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Shift plan deleted successfully")
}

// AddEntry godoc
// @Summary      Add a shift assignment to a plan
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id path int true "Plan ID"
// @Param        entry body CreateEntryRequest true "Entry payload"
// @Success      201  {object} Entry
// @Router       /api/v2/shifts/{id}/entries [post]
func (ctrl *ShiftController) AddEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}

	var req CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	entry, err := ctrl.ShiftService.AddEntry(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Created(c, entry)
}

// ListEntries godoc
// @Summary      List a plan's shift assignments
// @Tags         shifts
// @Produce      json
// @Param        id path int true "Plan ID"
// @Success      200  {array} Entry
// @Router       /api/v2/shifts/{id}/entries [get]
func (ctrl *ShiftController) ListEntries(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}

	entries, err := ctrl.ShiftService.ListEntries(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, entries)
}

// RemoveEntry godoc
// @Summary      Remove a shift assignment
// @Tags         shifts
// @Produce      json
// @Param        id path int true "Plan ID"
// @Param        entryId path int true "Entry ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/shifts/{id}/entries/{entryId} [delete]
func (ctrl *ShiftController) RemoveEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}
	entryID, err := strconv.ParseInt(c.Params("entryId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	if err := ctrl.ShiftService.RemoveEntry(c.UserContext(), id, entryID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Shift entry removed")
}

// Export godoc
// @Summary      Export a shift plan as XLSX
// @Tags         shifts
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path int true "Plan ID"
// @Success      200
// @Router       /api/v2/shifts/{id}/export [get]
func (ctrl *ShiftController) Export(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid plan id")
	}

	data, err := ctrl.ShiftService.ExportXLSX(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shift-plan.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
