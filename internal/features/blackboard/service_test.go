package blackboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type fakeEntryRepo struct {
	entries   map[int64]*Entry
	confirmed map[int64]map[int64]bool

	lastDepartmentID    *int64
	lastIncludeArchived bool
	activated, archived int64
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[int64]*Entry{}, confirmed: map[int64]map[int64]bool{}}
}

func (f *fakeEntryRepo) Create(_ context.Context, e *Entry) error {
	e.ID = int64(len(f.entries) + 1)
	f.entries[e.ID] = e
	return nil
}

func (f *fakeEntryRepo) FindByID(_ context.Context, id, _ int64) (*Entry, error) {
	return f.entries[id], nil
}

func (f *fakeEntryRepo) ListVisible(_ context.Context, _ int64, departmentID *int64, includeArchived bool) ([]Entry, error) {
	f.lastDepartmentID = departmentID
	f.lastIncludeArchived = includeArchived
	return nil, nil
}

func (f *fakeEntryRepo) Update(_ context.Context, e *Entry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeEntryRepo) SetStatus(_ context.Context, id, _ int64, status string) (bool, error) {
	entry := f.entries[id]
	if entry == nil {
		return false, nil
	}
	entry.Status = status
	return true, nil
}

func (f *fakeEntryRepo) Confirm(_ context.Context, entryID, userID int64) error {
	if f.confirmed[entryID] == nil {
		f.confirmed[entryID] = map[int64]bool{}
	}
	f.confirmed[entryID][userID] = true
	return nil
}

func (f *fakeEntryRepo) ListConfirmations(_ context.Context, _, _ int64) ([]Confirmation, error) {
	return nil, nil
}

func (f *fakeEntryRepo) HasConfirmed(_ context.Context, entryID, userID int64) (bool, error) {
	return f.confirmed[entryID][userID], nil
}

func (f *fakeEntryRepo) ActivateDue(_ context.Context, _ time.Time) (int64, error) {
	f.activated++
	return 0, nil
}

func (f *fakeEntryRepo) ArchiveExpired(_ context.Context, _ time.Time) (int64, error) {
	f.archived++
	return 0, nil
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

type fakeAuditService struct{}

func (f *fakeAuditService) Log(_ context.Context, _ models.AuditAction, _ string, _ int64, _ map[string]interface{}) error {
	return nil
}
func (f *fakeAuditService) ListLogs(_ context.Context, _ audit.ListFilters, _, _ int64) ([]models.AuditLog, error) {
	return nil, nil
}

func ctxWithRole(userID int64, role models.Role) context.Context {
	return utils.WithClaims(context.Background(), &utils.UserClaims{
		UserID:   userID,
		TenantID: 7,
		Role:     string(role),
	})
}

func newEntryService(repo *fakeEntryRepo, users *fakeUserRepo) EntryService {
	if users == nil {
		users = &fakeUserRepo{users: map[int64]*user.User{}}
	}
	return NewEntryService(repo, users, &fakeAuditService{})
}

func TestCreateEntryScheduledWhenValidFromInFuture(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newEntryService(repo, nil)

	future := time.Now().Add(48 * time.Hour)
	entry, err := svc.CreateEntry(ctxWithRole(1, models.RoleAdmin), CreateEntryRequest{
		Title:     "Maintenance window",
		Content:   "Line 2 down on Saturday",
		ValidFrom: &future,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.Status != StatusScheduled {
		t.Errorf("status = %q, want scheduled", entry.Status)
	}
	if entry.Priority != PriorityNormal {
		t.Errorf("priority = %q, want default normal", entry.Priority)
	}
}

func TestCreateEntryDepartmentScopeNeedsDepartment(t *testing.T) {
	svc := newEntryService(newFakeEntryRepo(), nil)

	_, err := svc.CreateEntry(ctxWithRole(1, models.RoleAdmin), CreateEntryRequest{
		Title:    "Team news",
		Content:  "...",
		OrgLevel: "department",
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateEntryEmployeeForbidden(t *testing.T) {
	svc := newEntryService(newFakeEntryRepo(), nil)

	_, err := svc.CreateEntry(ctxWithRole(2, models.RoleEmployee), CreateEntryRequest{
		Title:   "Nope",
		Content: "...",
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN, got %v", err)
	}
}

func TestListEntriesEmployeeScopedToOwnDepartment(t *testing.T) {
	repo := newFakeEntryRepo()
	dept := int64(4)
	users := &fakeUserRepo{users: map[int64]*user.User{
		2: {ID: 2, TenantID: 7, Role: models.RoleEmployee, DepartmentID: &dept},
	}}
	svc := newEntryService(repo, users)

	// The archived flag must not survive for employees.
	if _, err := svc.ListEntries(ctxWithRole(2, models.RoleEmployee), true); err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if repo.lastDepartmentID == nil || *repo.lastDepartmentID != dept {
		t.Errorf("departmentID = %v, want %d", repo.lastDepartmentID, dept)
	}
	if repo.lastIncludeArchived {
		t.Error("employees must never see archived entries")
	}
}

func TestListEntriesAdminTenantWide(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newEntryService(repo, nil)

	if _, err := svc.ListEntries(ctxWithRole(1, models.RoleAdmin), true); err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if repo.lastDepartmentID != nil {
		t.Errorf("departmentID = %v, want nil for admins", repo.lastDepartmentID)
	}
	if !repo.lastIncludeArchived {
		t.Error("admins may include archived entries")
	}
}

func TestConfirmEntry(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries[1] = &Entry{ID: 1, TenantID: 7, RequiresConfirmation: true, Status: StatusActive}
	svc := newEntryService(repo, nil)

	ctx := ctxWithRole(2, models.RoleEmployee)
	if err := svc.ConfirmEntry(ctx, 1); err != nil {
		t.Fatalf("ConfirmEntry: %v", err)
	}

	err := svc.ConfirmEntry(ctx, 1)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeConflict {
		t.Fatalf("second confirm: want CONFLICT, got %v", err)
	}
}

func TestConfirmEntryNotRequired(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries[1] = &Entry{ID: 1, TenantID: 7, Status: StatusActive}
	svc := newEntryService(repo, nil)

	err := svc.ConfirmEntry(ctxWithRole(2, models.RoleEmployee), 1)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestSweepTouchesBothTransitions(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newEntryService(repo, nil)

	if err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if repo.activated != 1 || repo.archived != 1 {
		t.Errorf("activated=%d archived=%d, want 1/1", repo.activated, repo.archived)
	}
}
