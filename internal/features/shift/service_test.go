package shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type fakeShiftRepo struct {
	plans   map[int64]*Plan
	entries []Entry
	nextID  int64
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{plans: map[int64]*Plan{}, nextID: 1}
}

func (f *fakeShiftRepo) CreatePlan(_ context.Context, p *Plan) error {
	p.ID = f.nextID
	f.nextID++
	f.plans[p.ID] = p
	return nil
}

func (f *fakeShiftRepo) FindPlanByID(_ context.Context, id, _ int64) (*Plan, error) {
	return f.plans[id], nil
}

func (f *fakeShiftRepo) ListPlans(_ context.Context, _ int64, _ *int64) ([]Plan, error) {
	return nil, nil
}

func (f *fakeShiftRepo) DeletePlan(_ context.Context, id, _ int64) (bool, error) {
	if f.plans[id] == nil {
		return false, nil
	}
	delete(f.plans, id)
	return true, nil
}

func (f *fakeShiftRepo) CreateEntry(_ context.Context, e *Entry) error {
	e.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeShiftRepo) ListEntries(_ context.Context, planID int64) ([]Entry, error) {
	out := []Entry{}
	for _, e := range f.entries {
		if e.PlanID == planID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) DeleteEntry(_ context.Context, id, planID int64) (bool, error) {
	for i, e := range f.entries {
		if e.ID == id && e.PlanID == planID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakePermissionService grants write access per department id.
type fakePermissionService struct {
	writable map[int64]bool
}

func (f *fakePermissionService) CheckAccess(_ context.Context, _, departmentID int64, _ models.PermissionLevel) (*adminperm.AccessResult, error) {
	return &adminperm.AccessResult{HasAccess: f.writable[departmentID]}, nil
}

func (f *fakePermissionService) GetAdminPermissions(_ context.Context, _ int64) (*adminperm.PermissionSummary, error) {
	return nil, nil
}
func (f *fakePermissionService) SetDepartmentPermissions(_ context.Context, _ int64, _ []int64, _ adminperm.PermissionFlags) error {
	return nil
}
func (f *fakePermissionService) SetGroupPermissions(_ context.Context, _ int64, _ []int64, _ adminperm.PermissionFlags) error {
	return nil
}
func (f *fakePermissionService) RemoveDepartmentPermission(_ context.Context, _, _ int64) error {
	return nil
}
func (f *fakePermissionService) RemoveGroupPermission(_ context.Context, _, _ int64) error {
	return nil
}
func (f *fakePermissionService) BulkUpdatePermissions(_ context.Context, _ adminperm.BulkUpdateRequest) (*adminperm.BulkUpdateResult, error) {
	return nil, nil
}

type fakeAuditService struct{}

func (f *fakeAuditService) Log(_ context.Context, _ models.AuditAction, _ string, _ int64, _ map[string]interface{}) error {
	return nil
}
func (f *fakeAuditService) ListLogs(_ context.Context, _ audit.ListFilters, _, _ int64) ([]models.AuditLog, error) {
	return nil, nil
}

func adminContext() context.Context {
	return utils.WithClaims(context.Background(), &utils.UserClaims{
		UserID:   10,
		TenantID: 7,
		Role:     string(models.RoleAdmin),
	})
}

func seedPlan(repo *fakeShiftRepo) *Plan {
	plan := &Plan{
		TenantID:     7,
		DepartmentID: 3,
		Name:         "Week 12",
		StartsOn:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		EndsOn:       time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
	}
	_ = repo.CreatePlan(context.Background(), plan)
	return plan
}

func TestCreatePlanRequiresWriteGrant(t *testing.T) {
	repo := newFakeShiftRepo()
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{}}, &fakeAuditService{})

	_, err := svc.CreatePlan(adminContext(), CreatePlanRequest{
		Name:         "Week 12",
		DepartmentID: 3,
		StartsOn:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		EndsOn:       time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN without a write grant, got %v", err)
	}
}

func TestCreatePlanWithGrant(t *testing.T) {
	repo := newFakeShiftRepo()
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	plan, err := svc.CreatePlan(adminContext(), CreatePlanRequest{
		Name:         "Week 12",
		DepartmentID: 3,
		StartsOn:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		EndsOn:       time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.ID == 0 || plan.TenantID != 7 {
		t.Errorf("plan = %+v, want persisted with tenant 7", plan)
	}
}

func TestCreatePlanRejectsInvertedRange(t *testing.T) {
	svc := NewShiftService(newFakeShiftRepo(), &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	_, err := svc.CreatePlan(adminContext(), CreatePlanRequest{
		Name:         "Backwards",
		DepartmentID: 3,
		StartsOn:     time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		EndsOn:       time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestAddEntryValidation(t *testing.T) {
	repo := newFakeShiftRepo()
	plan := seedPlan(repo)
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	tests := []struct {
		name string
		req  CreateEntryRequest
	}{
		{"unknown shift type", CreateEntryRequest{UserID: 2, ShiftType: "graveyard", Date: plan.StartsOn}},
		{"date before plan", CreateEntryRequest{UserID: 2, ShiftType: TypeEarly, Date: plan.StartsOn.AddDate(0, 0, -1)}},
		{"date after plan", CreateEntryRequest{UserID: 2, ShiftType: TypeLate, Date: plan.EndsOn.AddDate(0, 0, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddEntry(adminContext(), plan.ID, tt.req)
			var appErr *models.AppError
			if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
				t.Fatalf("want VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestAddEntryWithinRange(t *testing.T) {
	repo := newFakeShiftRepo()
	plan := seedPlan(repo)
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	entry, err := svc.AddEntry(adminContext(), plan.ID, CreateEntryRequest{
		UserID:    2,
		ShiftType: TypeNight,
		Date:      plan.StartsOn.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if entry.PlanID != plan.ID || entry.ShiftType != TypeNight {
		t.Errorf("entry = %+v", entry)
	}
}

func TestRemoveEntryNotFound(t *testing.T) {
	repo := newFakeShiftRepo()
	plan := seedPlan(repo)
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	err := svc.RemoveEntry(adminContext(), plan.ID, 999)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestEmployeeCannotManagePlans(t *testing.T) {
	repo := newFakeShiftRepo()
	plan := seedPlan(repo)
	svc := NewShiftService(repo, &fakePermissionService{writable: map[int64]bool{3: true}}, &fakeAuditService{})

	ctx := utils.WithClaims(context.Background(), &utils.UserClaims{
		UserID: 2, TenantID: 7, Role: string(models.RoleEmployee),
	})
	err := svc.DeletePlan(ctx, plan.ID)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN, got %v", err)
	}
}
