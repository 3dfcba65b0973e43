package adminperm

import (
	"context"
	"errors"
	"testing"

	"assixx/internal/common/models"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type fakePermissionRepo struct {
	direct     map[int64]*PermissionFlags // keyed by departmentID
	groupFlags map[int64][]PermissionFlags
	replaced   map[int64][]int64 // adminID -> last department id set
	failFor    map[int64]error   // adminID -> error on replace
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{
		direct:     map[int64]*PermissionFlags{},
		groupFlags: map[int64][]PermissionFlags{},
		replaced:   map[int64][]int64{},
		failFor:    map[int64]error{},
	}
}

func (f *fakePermissionRepo) FindDirect(_ context.Context, _, departmentID, _ int64) (*PermissionFlags, error) {
	return f.direct[departmentID], nil
}

func (f *fakePermissionRepo) FindGroupFlagsForDepartment(_ context.Context, _, departmentID, _ int64) ([]PermissionFlags, error) {
	return f.groupFlags[departmentID], nil
}

func (f *fakePermissionRepo) ListDepartmentGrants(_ context.Context, adminID, _ int64) ([]DepartmentGrant, error) {
	grants := []DepartmentGrant{}
	for _, id := range f.replaced[adminID] {
		grants = append(grants, DepartmentGrant{DepartmentID: id})
	}
	return grants, nil
}

func (f *fakePermissionRepo) ListGroupGrants(_ context.Context, _, _ int64) ([]GroupGrant, error) {
	return []GroupGrant{}, nil
}

func (f *fakePermissionRepo) ReplaceDepartmentPermissions(_ context.Context, adminID, _ int64, departmentIDs []int64, _ PermissionFlags, _ int64) error {
	if err := f.failFor[adminID]; err != nil {
		return err
	}
	f.replaced[adminID] = departmentIDs
	return nil
}

func (f *fakePermissionRepo) ReplaceGroupPermissions(_ context.Context, adminID, _ int64, groupIDs []int64, _ PermissionFlags, _ int64) error {
	return nil
}

func (f *fakePermissionRepo) DeleteDepartmentGrant(_ context.Context, _, departmentID, _ int64) (bool, error) {
	if f.direct[departmentID] == nil {
		return false, nil
	}
	delete(f.direct, departmentID)
	return true, nil
}

func (f *fakePermissionRepo) DeleteGroupGrant(_ context.Context, _, _, _ int64) (bool, error) {
	return true, nil
}

func (f *fakePermissionRepo) CountDepartments(_ context.Context, _ int64) (int64, error) {
	return 10, nil
}

type fakeUserRepo struct {
	users map[int64]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) FindByID(_ context.Context, id, _ int64) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) FindByLogin(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindNamesByIDs(_ context.Context, _ int64, _ []int64) (map[int64]string, error) {
	return map[int64]string{}, nil
}
func (f *fakeUserRepo) List(_ context.Context, _ int64, _ user.ListFilter) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) Delete(_ context.Context, _, _ int64) (bool, error) {
	return false, nil
}

func rootContext() context.Context {
	return utils.WithClaims(context.Background(), &utils.UserClaims{
		UserID:   1,
		TenantID: 7,
		Role:     string(models.RoleRoot),
	})
}

func newTestService(repo *fakePermissionRepo, users *fakeUserRepo) PermissionService {
	if users == nil {
		users = &fakeUserRepo{users: map[int64]*user.User{
			42: {ID: 42, TenantID: 7, Role: models.RoleAdmin},
		}}
	}
	return NewPermissionService(repo, users)
}

func TestCheckAccessDirectWins(t *testing.T) {
	repo := newFakePermissionRepo()
	// Direct row denies delete while a group grant would allow it.
	repo.direct[3] = &PermissionFlags{CanRead: true, CanWrite: true, CanDelete: false}
	repo.groupFlags[3] = []PermissionFlags{{CanRead: true, CanWrite: true, CanDelete: true}}

	svc := newTestService(repo, nil)
	result, err := svc.CheckAccess(rootContext(), 42, 3, models.PermissionDelete)
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if result.HasAccess {
		t.Error("direct row should override the more permissive group grant")
	}
	if result.Source != "direct" {
		t.Errorf("source = %q, want direct", result.Source)
	}
}

func TestCheckAccessGroupUnion(t *testing.T) {
	repo := newFakePermissionRepo()
	// No single group grants write+delete; the union does.
	repo.groupFlags[5] = []PermissionFlags{
		{CanRead: true, CanWrite: true},
		{CanRead: true, CanDelete: true},
	}

	svc := newTestService(repo, nil)

	for _, level := range []models.PermissionLevel{models.PermissionRead, models.PermissionWrite, models.PermissionDelete} {
		result, err := svc.CheckAccess(rootContext(), 42, 5, level)
		if err != nil {
			t.Fatalf("CheckAccess(%s): %v", level, err)
		}
		if !result.HasAccess {
			t.Errorf("level %s: want access via group union", level)
		}
		if result.Source != "group" {
			t.Errorf("level %s: source = %q, want group", level, result.Source)
		}
	}
}

func TestCheckAccessNoGrants(t *testing.T) {
	svc := newTestService(newFakePermissionRepo(), nil)

	result, err := svc.CheckAccess(rootContext(), 42, 9, models.PermissionRead)
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if result.HasAccess {
		t.Error("want no access without any grant")
	}
	if result.Source != "" {
		t.Errorf("source = %q, want empty", result.Source)
	}
}

func TestCheckAccessUnknownLevelFailsClosed(t *testing.T) {
	repo := newFakePermissionRepo()
	repo.direct[3] = &PermissionFlags{CanRead: true, CanWrite: true, CanDelete: true}

	svc := newTestService(repo, nil)
	result, err := svc.CheckAccess(rootContext(), 42, 3, models.PermissionLevel("admin"))
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if result.HasAccess {
		t.Error("unknown level must never grant access")
	}
}

func TestGetAdminPermissionsUnknownAdmin(t *testing.T) {
	svc := newTestService(newFakePermissionRepo(), &fakeUserRepo{users: map[int64]*user.User{}})

	_, err := svc.GetAdminPermissions(rootContext(), 999)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestGetAdminPermissionsCountsDirectOnly(t *testing.T) {
	repo := newFakePermissionRepo()
	repo.replaced[42] = []int64{1, 2}

	svc := newTestService(repo, nil)
	summary, err := svc.GetAdminPermissions(rootContext(), 42)
	if err != nil {
		t.Fatalf("GetAdminPermissions: %v", err)
	}
	if summary.HasAllAccess {
		t.Error("admin must not report hasAllAccess")
	}
	if summary.AssignedDepartments != 2 {
		t.Errorf("assignedDepartments = %d, want 2", summary.AssignedDepartments)
	}
	if summary.TotalDepartments != 10 {
		t.Errorf("totalDepartments = %d, want 10", summary.TotalDepartments)
	}
}

func TestGetAdminPermissionsRootHasAllAccess(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*user.User{
		1: {ID: 1, TenantID: 7, Role: models.RoleRoot},
	}}
	svc := newTestService(newFakePermissionRepo(), users)

	summary, err := svc.GetAdminPermissions(rootContext(), 1)
	if err != nil {
		t.Fatalf("GetAdminPermissions: %v", err)
	}
	if !summary.HasAllAccess {
		t.Error("root must report hasAllAccess")
	}
}

func TestSetDepartmentPermissionsRejectsNonAdmin(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*user.User{
		8: {ID: 8, TenantID: 7, Role: models.RoleEmployee},
	}}
	svc := newTestService(newFakePermissionRepo(), users)

	err := svc.SetDepartmentPermissions(rootContext(), 8, []int64{1}, PermissionFlags{CanRead: true})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestBulkUpdatePartialSuccess(t *testing.T) {
	repo := newFakePermissionRepo()
	repo.failFor[44] = errors.New("deadlock")
	users := &fakeUserRepo{users: map[int64]*user.User{
		42: {ID: 42, TenantID: 7, Role: models.RoleAdmin},
		43: {ID: 43, TenantID: 7, Role: models.RoleAdmin},
		44: {ID: 44, TenantID: 7, Role: models.RoleAdmin},
	}}
	svc := newTestService(repo, users)

	result, err := svc.BulkUpdatePermissions(rootContext(), BulkUpdateRequest{
		AdminIDs:      []int64{42, 43, 44},
		Operation:     "assign",
		DepartmentIDs: []int64{1, 2},
		Permissions:   PermissionFlags{CanRead: true},
	})
	if err != nil {
		t.Fatalf("BulkUpdatePermissions: %v", err)
	}
	if result.SuccessCount != 2 || result.TotalCount != 3 {
		t.Errorf("got %d/%d, want 2/3", result.SuccessCount, result.TotalCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one entry", result.Errors)
	}
}

func TestBulkUpdateRemoveClearsGrants(t *testing.T) {
	repo := newFakePermissionRepo()
	repo.replaced[42] = []int64{1, 2, 3}

	svc := newTestService(repo, nil)
	result, err := svc.BulkUpdatePermissions(rootContext(), BulkUpdateRequest{
		AdminIDs:      []int64{42},
		Operation:     "remove",
		DepartmentIDs: []int64{1, 2, 3}, // ignored for remove
	})
	if err != nil {
		t.Fatalf("BulkUpdatePermissions: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("successCount = %d, want 1", result.SuccessCount)
	}
	if len(repo.replaced[42]) != 0 {
		t.Errorf("grants after remove = %v, want empty", repo.replaced[42])
	}
}

func TestBulkUpdateRejectsUnknownOperation(t *testing.T) {
	svc := newTestService(newFakePermissionRepo(), nil)

	_, err := svc.BulkUpdatePermissions(rootContext(), BulkUpdateRequest{
		AdminIDs:  []int64{42},
		Operation: "merge",
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestRemoveDepartmentPermissionNotFound(t *testing.T) {
	svc := newTestService(newFakePermissionRepo(), nil)

	err := svc.RemoveDepartmentPermission(rootContext(), 42, 99)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestCheckAccessRevokedWhenGroupMembershipRemoved(t *testing.T) {
	repo := newFakePermissionRepo()
	repo.groupFlags[5] = []PermissionFlags{{CanRead: true, CanWrite: true}}

	svc := newTestService(repo, nil)
	result, err := svc.CheckAccess(rootContext(), 42, 5, models.PermissionRead)
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if !result.HasAccess || result.Source != "group" {
		t.Fatalf("result = %+v, want group access before removal", result)
	}

	// The department leaves the group: the membership join now yields no
	// rows, so access must disappear on the very next check.
	delete(repo.groupFlags, 5)

	result, err = svc.CheckAccess(rootContext(), 42, 5, models.PermissionRead)
	if err != nil {
		t.Fatalf("CheckAccess after removal: %v", err)
	}
	if result.HasAccess {
		t.Error("group-derived access must vanish with the membership row")
	}
	if result.Source != "" {
		t.Errorf("source = %q, want empty after removal", result.Source)
	}
}
