package department

import (
	"context"
	"errors"
	"testing"

	"assixx/internal/common/models"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type fakeDepartmentRepo struct {
	departments map[int64]*Department
	groups      map[int64]*Group
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: map[int64]*Department{}, groups: map[int64]*Group{}}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *Department) error {
	dept.ID = int64(len(f.departments) + 1)
	f.departments[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) FindByID(_ context.Context, id, _ int64) (*Department, error) {
	return f.departments[id], nil
}

func (f *fakeDepartmentRepo) List(_ context.Context, _ int64, _ bool) ([]Department, error) {
	out := []Department{}
	for i := int64(1); i <= int64(len(f.departments)); i++ {
		if d := f.departments[i]; d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *Department) error {
	f.departments[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, id, _ int64) (bool, error) {
	if f.departments[id] == nil {
		return false, nil
	}
	delete(f.departments, id)
	return true, nil
}

func (f *fakeDepartmentRepo) CreateGroup(_ context.Context, group *Group, _ []int64) error {
	group.ID = int64(len(f.groups) + 1)
	f.groups[group.ID] = group
	return nil
}

func (f *fakeDepartmentRepo) FindGroupByID(_ context.Context, id, _ int64) (*Group, error) {
	return f.groups[id], nil
}

func (f *fakeDepartmentRepo) ListGroups(_ context.Context, _ int64) ([]Group, error) {
	return nil, nil
}

func (f *fakeDepartmentRepo) DeleteGroup(_ context.Context, id, _ int64) (bool, error) {
	if f.groups[id] == nil {
		return false, nil
	}
	delete(f.groups, id)
	return true, nil
}

func (f *fakeDepartmentRepo) ListGroupMembers(_ context.Context, _, _ int64) ([]Department, error) {
	return nil, nil
}

func (f *fakeDepartmentRepo) AddGroupMember(_ context.Context, _, _, _ int64) error { return nil }
func (f *fakeDepartmentRepo) RemoveGroupMember(_ context.Context, _, _, _ int64) (bool, error) {
	return true, nil
}

// fakePermissionService answers read checks from a fixed allow set.
type fakePermissionService struct {
	readable map[int64]bool
}

func (f *fakePermissionService) CheckAccess(_ context.Context, _, departmentID int64, _ models.PermissionLevel) (*adminperm.AccessResult, error) {
	return &adminperm.AccessResult{HasAccess: f.readable[departmentID]}, nil
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

func ctxWithRole(role models.Role, departmentID *int64) context.Context {
	return utils.WithClaims(context.Background(), &utils.UserClaims{
		UserID:       1,
		TenantID:     7,
		Role:         string(role),
		DepartmentID: departmentID,
	})
}

func seedDepartments(repo *fakeDepartmentRepo, names ...string) {
	for _, name := range names {
		_ = repo.Create(context.Background(), &Department{TenantID: 7, Name: name, IsActive: true})
	}
}

func TestListDepartmentsRootSeesAll(t *testing.T) {
	repo := newFakeDepartmentRepo()
	seedDepartments(repo, "Production", "Logistics", "HR")
	svc := NewDepartmentService(repo, &fakePermissionService{}, &fakeAuditService{})

	depts, err := svc.ListDepartments(ctxWithRole(models.RoleRoot, nil), false)
	if err != nil {
		t.Fatalf("ListDepartments: %v", err)
	}
	if len(depts) != 3 {
		t.Errorf("got %d departments, want 3", len(depts))
	}
}

func TestListDepartmentsAdminFilteredByGrants(t *testing.T) {
	repo := newFakeDepartmentRepo()
	seedDepartments(repo, "Production", "Logistics", "HR")
	perms := &fakePermissionService{readable: map[int64]bool{2: true}}
	svc := NewDepartmentService(repo, perms, &fakeAuditService{})

	depts, err := svc.ListDepartments(ctxWithRole(models.RoleAdmin, nil), false)
	if err != nil {
		t.Fatalf("ListDepartments: %v", err)
	}
	if len(depts) != 1 || depts[0].Name != "Logistics" {
		t.Errorf("depts = %+v, want only Logistics", depts)
	}
}

func TestListDepartmentsEmployeeSeesOwnOnly(t *testing.T) {
	repo := newFakeDepartmentRepo()
	seedDepartments(repo, "Production", "Logistics")
	svc := NewDepartmentService(repo, &fakePermissionService{}, &fakeAuditService{})

	own := int64(1)
	depts, err := svc.ListDepartments(ctxWithRole(models.RoleEmployee, &own), false)
	if err != nil {
		t.Fatalf("ListDepartments: %v", err)
	}
	if len(depts) != 1 || depts[0].ID != own {
		t.Errorf("depts = %+v, want only department 1", depts)
	}
}

func TestCreateDepartmentRootOnly(t *testing.T) {
	svc := NewDepartmentService(newFakeDepartmentRepo(), &fakePermissionService{}, &fakeAuditService{})

	_, err := svc.CreateDepartment(ctxWithRole(models.RoleAdmin, nil), CreateDepartmentRequest{Name: "New"})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN for admin, got %v", err)
	}
}

func TestUpdateDepartmentRejectsSelfParent(t *testing.T) {
	repo := newFakeDepartmentRepo()
	seedDepartments(repo, "Production")
	svc := NewDepartmentService(repo, &fakePermissionService{}, &fakeAuditService{})

	self := int64(1)
	_, err := svc.UpdateDepartment(ctxWithRole(models.RoleRoot, nil), 1, UpdateDepartmentRequest{ParentID: &self})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestGetDepartmentForbiddenWithoutGrant(t *testing.T) {
	repo := newFakeDepartmentRepo()
	seedDepartments(repo, "Production")
	svc := NewDepartmentService(repo, &fakePermissionService{}, &fakeAuditService{})

	_, err := svc.GetDepartment(ctxWithRole(models.RoleAdmin, nil), 1)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN, got %v", err)
	}
}

func TestDeleteGroupNotFound(t *testing.T) {
	svc := NewDepartmentService(newFakeDepartmentRepo(), &fakePermissionService{}, &fakeAuditService{})

	err := svc.DeleteGroup(ctxWithRole(models.RoleRoot, nil), 99)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}
