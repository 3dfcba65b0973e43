package department

import (
	"context"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type DepartmentService interface {
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	ListDepartments(ctx context.Context, includeInactive bool) ([]Department, error)
	UpdateDepartment(ctx context.Context, id int64, req UpdateDepartmentRequest) (*Department, error)
	DeleteDepartment(ctx context.Context, id int64) error

	CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroupMembers(ctx context.Context, groupID int64) ([]Department, error)
	DeleteGroup(ctx context.Context, groupID int64) error
	AddGroupMember(ctx context.Context, groupID, departmentID int64) error
	RemoveGroupMember(ctx context.Context, groupID, departmentID int64) error
}

type DepartmentServiceImpl struct {
	Repo         DepartmentRepository
	Permissions  adminperm.PermissionService
	AuditService audit.AuditService
}

func NewDepartmentService(repo DepartmentRepository, permissions adminperm.PermissionService, auditService audit.AuditService) DepartmentService {
	return &DepartmentServiceImpl{
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

func requireRoot(ctx context.Context) (*utils.UserClaims, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if models.Role(claims.Role) != models.RoleRoot {
		return nil, models.NewForbidden("Only root can manage departments")
	}
	return claims, nil
}

// canRead decides read access to one department. Root always passes;
// the permission resolver is only consulted for admins.
func (s *DepartmentServiceImpl) canRead(ctx context.Context, claims *utils.UserClaims, departmentID int64) (bool, error) {
	switch models.Role(claims.Role) {
	case models.RoleRoot:
		return true, nil
	case models.RoleAdmin:
		result, err := s.Permissions.CheckAccess(ctx, claims.UserID, departmentID, models.PermissionRead)
		if err != nil {
			return false, err
		}
		return result.HasAccess, nil
	default:
		return claims.DepartmentID != nil && *claims.DepartmentID == departmentID, nil
	}
}

func (s *DepartmentServiceImpl) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*Department, error) {
	claims, err := requireRoot(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, models.NewValidationError("name is required")
	}

	now := time.Now()
	dept := &Department{
		TenantID:    claims.TenantID,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, dept); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "department", dept.ID, map[string]interface{}{
		"name": dept.Name,
	})
	return dept, nil
}

func (s *DepartmentServiceImpl) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	dept, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, models.NewNotFound("Department not found")
	}

	allowed, err := s.canRead(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbidden("No access to this department")
	}
	return dept, nil
}

// ListDepartments returns the departments the caller may see: root sees
// everything, admins only departments with a read grant, employees only
// their own.
func (s *DepartmentServiceImpl) ListDepartments(ctx context.Context, includeInactive bool) ([]Department, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.Repo.List(ctx, claims.TenantID, includeInactive && models.Role(claims.Role) == models.RoleRoot)
	if err != nil {
		return nil, err
	}
	if models.Role(claims.Role) == models.RoleRoot {
		return all, nil
	}

	visible := []Department{}
	for _, dept := range all {
		allowed, err := s.canRead(ctx, claims, dept.ID)
		if err != nil {
			return nil, err
		}
		if allowed {
			visible = append(visible, dept)
		}
	}
	return visible, nil
}

func (s *DepartmentServiceImpl) UpdateDepartment(ctx context.Context, id int64, req UpdateDepartmentRequest) (*Department, error) {
	claims, err := requireRoot(ctx)
	if err != nil {
		return nil, err
	}

	dept, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, models.NewNotFound("Department not found")
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, models.NewValidationError("A department cannot be its own parent")
		}
		dept.ParentID = req.ParentID
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, dept); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "department", dept.ID, nil)
	return dept, nil
}

func (s *DepartmentServiceImpl) DeleteDepartment(ctx context.Context, id int64) error {
	claims, err := requireRoot(ctx)
	if err != nil {
		return err
	}

	deleted, err := s.Repo.Delete(ctx, id, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("Department not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "department", id, nil)
	return nil
}

func (s *DepartmentServiceImpl) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	claims, err := requireRoot(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, models.NewValidationError("name is required")
	}

	group := &Group{
		TenantID:    claims.TenantID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.CreateGroup(ctx, group, req.DepartmentIDs); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "department_group", group.ID, map[string]interface{}{
		"name":        group.Name,
		"memberCount": len(req.DepartmentIDs),
	})
	return group, nil
}

func (s *DepartmentServiceImpl) ListGroups(ctx context.Context) ([]Group, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if models.Role(claims.Role) == models.RoleEmployee {
		return nil, models.NewForbidden("Employees cannot list department groups")
	}
	return s.Repo.ListGroups(ctx, claims.TenantID)
}

func (s *DepartmentServiceImpl) GetGroupMembers(ctx context.Context, groupID int64) ([]Department, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if models.Role(claims.Role) == models.RoleEmployee {
		return nil, models.NewForbidden("Employees cannot inspect department groups")
	}

	group, err := s.Repo.FindGroupByID(ctx, groupID, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, models.NewNotFound("Group not found")
	}
	return s.Repo.ListGroupMembers(ctx, groupID, claims.TenantID)
}

func (s *DepartmentServiceImpl) DeleteGroup(ctx context.Context, groupID int64) error {
	claims, err := requireRoot(ctx)
	if err != nil {
		return err
	}

	deleted, err := s.Repo.DeleteGroup(ctx, groupID, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("Group not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "department_group", groupID, nil)
	return nil
}

func (s *DepartmentServiceImpl) AddGroupMember(ctx context.Context, groupID, departmentID int64) error {
	claims, err := requireRoot(ctx)
	if err != nil {
		return err
	}

	group, err := s.Repo.FindGroupByID(ctx, groupID, claims.TenantID)
	if err != nil {
		return err
	}
	if group == nil {
		return models.NewNotFound("Group not found")
	}
	dept, err := s.Repo.FindByID(ctx, departmentID, claims.TenantID)
	if err != nil {
		return err
	}
	if dept == nil {
		return models.NewNotFound("Department not found")
	}

	if err := s.Repo.AddGroupMember(ctx, groupID, departmentID, claims.TenantID); err != nil {
		return err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionAssign, "department_group", groupID, map[string]interface{}{
		"departmentId": departmentID,
	})
	return nil
}

func (s *DepartmentServiceImpl) RemoveGroupMember(ctx context.Context, groupID, departmentID int64) error {
	claims, err := requireRoot(ctx)
	if err != nil {
		return err
	}

	removed, err := s.Repo.RemoveGroupMember(ctx, groupID, departmentID, claims.TenantID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFound("Membership not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionRevoke, "department_group", groupID, map[string]interface{}{
		"departmentId": departmentID,
	})
	return nil
}
