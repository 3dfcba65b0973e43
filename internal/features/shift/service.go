package shift

import (
	"bytes"
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"assixx/internal/common/models"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type ShiftService interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlan(ctx context.Context, id int64) (*Plan, error)
	ListPlans(ctx context.Context, departmentID *int64) ([]Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	AddEntry(ctx context.Context, planID int64, req CreateEntryRequest) (*Entry, error)
	ListEntries(ctx context.Context, planID int64) ([]Entry, error)
	RemoveEntry(ctx context.Context, planID, entryID int64) error
	ExportXLSX(ctx context.Context, planID int64) ([]byte, error)
}

type ShiftServiceImpl struct {
	Repo         ShiftRepository
	Permissions  adminperm.PermissionService
	AuditService audit.AuditService
}

func NewShiftService(repo ShiftRepository, permissions adminperm.PermissionService, auditService audit.AuditService) ShiftService {
	return &ShiftServiceImpl{
		Repo:         repo,
		Permissions:  permissions,
		AuditService: auditService,
	}
}

func claimsFrom(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	return claims, nil
}

// canManage gates plan writes: root always, admins with a write grant
// on the plan's department.
func (s *ShiftServiceImpl) canManage(ctx context.Context, claims *utils.UserClaims, departmentID int64) (bool, error) {
	switch models.Role(claims.Role) {
	case models.RoleRoot:
		return true, nil
	case models.RoleAdmin:
		result, err := s.Permissions.CheckAccess(ctx, claims.UserID, departmentID, models.PermissionWrite)
		if err != nil {
			return false, err
		}
		return result.HasAccess, nil
	default:
		return false, nil
	}
}

func (s *ShiftServiceImpl) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name == "" || req.DepartmentID == 0 {
		return nil, models.NewValidationError("name and departmentId are required")
	}
	if req.EndsOn.Before(req.StartsOn) {
		return nil, models.NewValidationError("endsOn must be after startsOn")
	}

	allowed, err := s.canManage(ctx, claims, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbidden("No write access to this department")
	}

	now := time.Now()
	plan := &Plan{
		TenantID:     claims.TenantID,
		DepartmentID: req.DepartmentID,
		TeamID:       req.TeamID,
		Name:         req.Name,
		StartsOn:     req.StartsOn,
		EndsOn:       req.EndsOn,
		CreatedBy:    claims.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "shift_plan", plan.ID, map[string]interface{}{
		"name":         plan.Name,
		"departmentId": plan.DepartmentID,
	})
	return plan, nil
}

func (s *ShiftServiceImpl) GetPlan(ctx context.Context, id int64) (*Plan, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.Repo.FindPlanByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, models.NewNotFound("Shift plan not found")
	}
	return plan, nil
}

func (s *ShiftServiceImpl) ListPlans(ctx context.Context, departmentID *int64) ([]Plan, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListPlans(ctx, claims.TenantID, departmentID)
}

func (s *ShiftServiceImpl) DeletePlan(ctx context.Context, id int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, claims, plan.DepartmentID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbidden("No write access to this department")
	}

	deleted, err := s.Repo.DeletePlan(ctx, id, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("Shift plan not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "shift_plan", id, nil)
	return nil
}

func (s *ShiftServiceImpl) AddEntry(ctx context.Context, planID int64, req CreateEntryRequest) (*Entry, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !validShiftType(req.ShiftType) {
		return nil, models.NewValidationError("Invalid shift type")
	}
	if req.Date.Before(plan.StartsOn) || req.Date.After(plan.EndsOn) {
		return nil, models.NewValidationError("Date lies outside the plan range")
	}

	allowed, err := s.canManage(ctx, claims, plan.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbidden("No write access to this department")
	}

	entry := &Entry{
		PlanID:    planID,
		UserID:    req.UserID,
		Date:      req.Date,
		ShiftType: req.ShiftType,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionAssign, "shift_plan", planID, map[string]interface{}{
		"userId":    req.UserID,
		"shiftType": req.ShiftType,
	})
	return entry, nil
}

func (s *ShiftServiceImpl) ListEntries(ctx context.Context, planID int64) ([]Entry, error) {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.Repo.ListEntries(ctx, planID)
}

func (s *ShiftServiceImpl) RemoveEntry(ctx context.Context, planID, entryID int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, claims, plan.DepartmentID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbidden("No write access to this department")
	}

	removed, err := s.Repo.DeleteEntry(ctx, entryID, planID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFound("Shift entry not found")
	}
	return nil
}

// ExportXLSX renders a plan as a date-by-user grid, one row per entry.
func (s *ShiftServiceImpl) ExportXLSX(ctx context.Context, planID int64) ([]byte, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	entries, err := s.Repo.ListEntries(ctx, planID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Shifts"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", plan.Name)

	headers := []string{"Date", "User", "Shift", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}
	for row, e := range entries {
		values := []interface{}{e.Date.Format("2006-01-02"), e.Username, e.ShiftType, e.Note}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionExport, "shift_plan", planID, map[string]interface{}{
		"entries": len(entries),
	})
	return buf.Bytes(), nil
}
