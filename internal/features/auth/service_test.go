package auth

import (
	"context"
	"errors"
	"testing"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type fakeUserRepo struct {
	byLogin map[string]*user.User
	byID    map[int64]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) FindByID(_ context.Context, id, _ int64) (*user.User, error) {
	return f.byID[id], nil
}
func (f *fakeUserRepo) FindByLogin(_ context.Context, login string) (*user.User, error) {
	return f.byLogin[login], nil
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

type fakeAuditService struct {
	actions []models.AuditAction
}

func (f *fakeAuditService) Log(_ context.Context, action models.AuditAction, _ string, _ int64, _ map[string]interface{}) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) ListLogs(_ context.Context, _ audit.ListFilters, _, _ int64) ([]models.AuditLog, error) {
	return nil, nil
}

func activeUser() *user.User {
	return &user.User{
		ID:           5,
		TenantID:     7,
		Username:     "maria",
		Email:        "maria@example.com",
		Role:         models.RoleEmployee,
		Status:       "active",
		PasswordHash: user.HashPassword("hunter2"),
	}
}

func TestLoginUnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := &fakeUserRepo{byLogin: map[string]*user.User{"maria": activeUser()}}
	svc := NewAuthService(repo, &fakeAuditService{})

	_, _, errUnknown := svc.Login(context.Background(), "nobody", "whatever")
	_, _, errWrongPw := svc.Login(context.Background(), "maria", "not-hunter2")

	for _, err := range []error{errUnknown, errWrongPw} {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.CodeUnauthorized {
			t.Fatalf("want UNAUTHORIZED, got %v", err)
		}
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &fakeUserRepo{byLogin: map[string]*user.User{"maria": activeUser()}}
	auditSvc := &fakeAuditService{}
	svc := NewAuthService(repo, auditSvc)

	token, usr, err := svc.Login(context.Background(), "maria", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("want a signed token")
	}
	if usr == nil || usr.ID != 5 {
		t.Fatalf("user = %+v, want id 5", usr)
	}
	if len(auditSvc.actions) != 1 || auditSvc.actions[0] != models.AuditActionLogin {
		t.Errorf("audit actions = %v, want one LOGIN", auditSvc.actions)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	usr := activeUser()
	usr.Status = "inactive"
	repo := &fakeUserRepo{byLogin: map[string]*user.User{"maria": usr}}
	svc := NewAuthService(repo, &fakeAuditService{})

	_, _, err := svc.Login(context.Background(), "maria", "hunter2")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeForbidden {
		t.Fatalf("want FORBIDDEN, got %v", err)
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, &fakeAuditService{})

	_, _, err := svc.Login(context.Background(), "maria", "")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestMeWithoutPrincipal(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, &fakeAuditService{})

	_, err := svc.Me(context.Background())
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeUnauthorized {
		t.Fatalf("want UNAUTHORIZED, got %v", err)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	usr := activeUser()
	repo := &fakeUserRepo{byID: map[int64]*user.User{5: usr}}
	svc := NewAuthService(repo, &fakeAuditService{})

	ctx := utils.WithClaims(context.Background(), &utils.UserClaims{UserID: 5, TenantID: 7, Role: string(models.RoleEmployee)})
	got, err := svc.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if got.Username != "maria" {
		t.Errorf("username = %q, want maria", got.Username)
	}
}
