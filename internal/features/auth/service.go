package auth

import (
	"context"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (string, *user.User, error)
	Me(ctx context.Context) (*user.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, login, password string) (string, *user.User, error) {
	if login == "" || password == "" {
		return "", nil, models.NewValidationError("login and password are required")
	}

	usr, err := s.UserRepo.FindByLogin(ctx, login)
	if err != nil {
		return "", nil, err
	}
	// Same error for unknown user and wrong password.
	if usr == nil || usr.PasswordHash != user.HashPassword(password) {
		return "", nil, models.NewUnauthorized("Invalid credentials")
	}
	if usr.Status != "active" {
		return "", nil, models.NewForbidden("Account is not active")
	}

	token, err := utils.GenerateToken(usr.ID, usr.TenantID, string(usr.Role), usr.DepartmentID)
	if err != nil {
		return "", nil, err
	}

	claims := &utils.UserClaims{
		UserID:       usr.ID,
		TenantID:     usr.TenantID,
		Role:         string(usr.Role),
		DepartmentID: usr.DepartmentID,
	}
	_ = s.AuditService.Log(utils.WithClaims(ctx, claims), models.AuditActionLogin, "user", usr.ID, nil)

	return token, usr, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context) (*user.User, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}

	usr, err := s.UserRepo.FindByID(ctx, claims.UserID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, models.NewNotFound("User not found")
	}
	return usr, nil
}
