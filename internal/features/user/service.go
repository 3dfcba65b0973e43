package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

// HashPassword hashes the password itself, independent of the account.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func actor(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	return claims, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	claims, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role != models.RoleRoot && role != models.RoleAdmin {
		return nil, models.NewForbidden("Only root and admins can create users")
	}

	newRole := models.Role(req.Role)
	if !newRole.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}
	// Only the tenant root can mint another root or an admin.
	if role == models.RoleAdmin && newRole != models.RoleEmployee {
		return nil, models.NewForbidden("Admins can only create employees")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, models.NewValidationError("username, email and password are required")
	}

	existing, err := s.Repo.FindByLogin(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflict("Username already taken")
	}

	now := time.Now()
	user := &User{
		TenantID:     claims.TenantID,
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         newRole,
		DepartmentID: req.DepartmentID,
		Status:       "active",
		PasswordHash: HashPassword(req.Password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "user", user.ID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*User, error) {
	claims, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role == models.RoleEmployee && claims.UserID != id {
		return nil, models.NewForbidden("Employees can only view their own profile")
	}

	user, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound("User not found")
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	claims, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role == models.RoleEmployee {
		return nil, models.NewForbidden("Employees cannot list users")
	}

	return s.Repo.List(ctx, claims.TenantID, filter)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	claims, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role == models.RoleEmployee && claims.UserID != id {
		return nil, models.NewForbidden("Employees can only update their own profile")
	}

	user, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound("User not found")
	}

	changes := map[string]interface{}{}
	if req.Email != nil {
		user.Email = *req.Email
		changes["email"] = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.DepartmentID != nil {
		if role == models.RoleEmployee {
			return nil, models.NewForbidden("Employees cannot change their department")
		}
		user.DepartmentID = req.DepartmentID
		changes["departmentId"] = *req.DepartmentID
	}
	if req.Status != nil {
		if role == models.RoleEmployee {
			return nil, models.NewForbidden("Employees cannot change their status")
		}
		user.Status = *req.Status
		changes["status"] = *req.Status
	}

	user.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "user", user.ID, changes)

	return user, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	claims, err := actor(ctx)
	if err != nil {
		return err
	}

	if models.Role(claims.Role) != models.RoleRoot {
		return models.NewForbidden("Only root can delete users")
	}
	if claims.UserID == id {
		return models.NewValidationError("Cannot delete your own account")
	}

	deleted, err := s.Repo.Delete(ctx, id, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("User not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "user", id, nil)
	return nil
}
