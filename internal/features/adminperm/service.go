package adminperm

import (
	"context"
	"fmt"

	"assixx/internal/common/models"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type PermissionService interface {
	CheckAccess(ctx context.Context, adminID, departmentID int64, requiredLevel models.PermissionLevel) (*AccessResult, error)
	GetAdminPermissions(ctx context.Context, adminID int64) (*PermissionSummary, error)
	SetDepartmentPermissions(ctx context.Context, adminID int64, departmentIDs []int64, flags PermissionFlags) error
	SetGroupPermissions(ctx context.Context, adminID int64, groupIDs []int64, flags PermissionFlags) error
	RemoveDepartmentPermission(ctx context.Context, adminID, departmentID int64) error
	RemoveGroupPermission(ctx context.Context, adminID, groupID int64) error
	BulkUpdatePermissions(ctx context.Context, req BulkUpdateRequest) (*BulkUpdateResult, error)
}

type PermissionServiceImpl struct {
	Repo     PermissionRepository
	UserRepo user.UserRepository
}

func NewPermissionService(repo PermissionRepository, userRepo user.UserRepository) PermissionService {
	return &PermissionServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

// levelSatisfied maps the requested level onto the grant's flags. An
// unknown level never satisfies.
func levelSatisfied(flags PermissionFlags, level models.PermissionLevel) bool {
	switch level {
	case models.PermissionRead:
		return flags.CanRead
	case models.PermissionWrite:
		return flags.CanWrite
	case models.PermissionDelete:
		return flags.CanDelete
	default:
		return false
	}
}

// CheckAccess resolves an admin's access to one department. A direct
// grant always decides, even when a group grant would have been more
// permissive. Absent a direct row, all group grants covering the
// department are OR-combined. Callers handle the root role themselves;
// this method only evaluates grant rows.
func (s *PermissionServiceImpl) CheckAccess(ctx context.Context, adminID, departmentID int64, requiredLevel models.PermissionLevel) (*AccessResult, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}

	direct, err := s.Repo.FindDirect(ctx, adminID, departmentID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		return &AccessResult{
			HasAccess:   levelSatisfied(*direct, requiredLevel),
			Source:      "direct",
			Permissions: direct,
		}, nil
	}

	groupFlags, err := s.Repo.FindGroupFlagsForDepartment(ctx, adminID, departmentID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if len(groupFlags) > 0 {
		combined := PermissionFlags{}
		for _, f := range groupFlags {
			combined.CanRead = combined.CanRead || f.CanRead
			combined.CanWrite = combined.CanWrite || f.CanWrite
			combined.CanDelete = combined.CanDelete || f.CanDelete
		}
		return &AccessResult{
			HasAccess:   levelSatisfied(combined, requiredLevel),
			Source:      "group",
			Permissions: &combined,
		}, nil
	}

	return &AccessResult{HasAccess: false}, nil
}

func (s *PermissionServiceImpl) GetAdminPermissions(ctx context.Context, adminID int64) (*PermissionSummary, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}

	admin, err := s.UserRepo.FindByID(ctx, adminID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, models.NewNotFound("Admin not found")
	}

	departments, err := s.Repo.ListDepartmentGrants(ctx, adminID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	groups, err := s.Repo.ListGroupGrants(ctx, adminID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.CountDepartments(ctx, claims.TenantID)
	if err != nil {
		return nil, err
	}

	return &PermissionSummary{
		AdminID:             adminID,
		HasAllAccess:        admin.Role == models.RoleRoot,
		Departments:         departments,
		Groups:              groups,
		TotalDepartments:    total,
		AssignedDepartments: int64(len(departments)),
	}, nil
}

func (s *PermissionServiceImpl) requireAdmin(ctx context.Context, adminID int64) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}

	target, err := s.UserRepo.FindByID(ctx, adminID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFound("Admin not found")
	}
	if target.Role != models.RoleAdmin {
		return nil, models.NewValidationError("Permissions can only be assigned to admins")
	}
	return claims, nil
}

// SetDepartmentPermissions replaces the admin's direct grants with the
// given set. An empty list revokes everything.
func (s *PermissionServiceImpl) SetDepartmentPermissions(ctx context.Context, adminID int64, departmentIDs []int64, flags PermissionFlags) error {
	claims, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	return s.Repo.ReplaceDepartmentPermissions(ctx, adminID, claims.TenantID, departmentIDs, flags, claims.UserID)
}

func (s *PermissionServiceImpl) SetGroupPermissions(ctx context.Context, adminID int64, groupIDs []int64, flags PermissionFlags) error {
	claims, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	return s.Repo.ReplaceGroupPermissions(ctx, adminID, claims.TenantID, groupIDs, flags, claims.UserID)
}

func (s *PermissionServiceImpl) RemoveDepartmentPermission(ctx context.Context, adminID, departmentID int64) error {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return models.NewUnauthorized("No authenticated principal")
	}

	removed, err := s.Repo.DeleteDepartmentGrant(ctx, adminID, departmentID, claims.TenantID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFound("Permission not found")
	}
	return nil
}

func (s *PermissionServiceImpl) RemoveGroupPermission(ctx context.Context, adminID, groupID int64) error {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return models.NewUnauthorized("No authenticated principal")
	}

	removed, err := s.Repo.DeleteGroupGrant(ctx, adminID, groupID, claims.TenantID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFound("Permission not found")
	}
	return nil
}

// BulkUpdatePermissions applies the same assignment to many admins.
// "assign" replaces each admin's direct grants with the request's
// departments; "remove" replaces them with the empty set. Failures are
// collected per admin instead of aborting the batch.
func (s *PermissionServiceImpl) BulkUpdatePermissions(ctx context.Context, req BulkUpdateRequest) (*BulkUpdateResult, error) {
	if _, ok := utils.ClaimsFromContext(ctx); !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	if len(req.AdminIDs) == 0 {
		return nil, models.NewValidationError("adminIds must not be empty")
	}
	if req.Operation != "assign" && req.Operation != "remove" {
		return nil, models.NewValidationError("operation must be assign or remove")
	}

	result := &BulkUpdateResult{
		TotalCount: len(req.AdminIDs),
		Errors:     []string{},
	}

	for _, adminID := range req.AdminIDs {
		departmentIDs := req.DepartmentIDs
		if req.Operation == "remove" {
			departmentIDs = nil
		}

		if err := s.SetDepartmentPermissions(ctx, adminID, departmentIDs, req.Permissions); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("admin %d: %s", adminID, err.Error()))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}
