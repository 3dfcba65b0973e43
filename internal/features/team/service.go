package team

import (
	"context"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/pkg/utils"
)

type TeamService interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*Team, error)
	GetTeam(ctx context.Context, id int64) (*Team, error)
	ListTeams(ctx context.Context, departmentID *int64) ([]Team, error)
	UpdateTeam(ctx context.Context, id int64, req UpdateTeamRequest) (*Team, error)
	DeleteTeam(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, teamID int64) ([]Member, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type TeamServiceImpl struct {
	Repo         TeamRepository
	Permissions  adminperm.PermissionService
	AuditService audit.AuditService
}

func NewTeamService(repo TeamRepository, permissions adminperm.PermissionService, auditService audit.AuditService) TeamService {
	return &TeamServiceImpl{
		Repo:         repo,
		Permissions:  permissions,
		AuditService: auditService,
	}
}

// canManage decides write access to teams in one department. Root
// always may; admins need a write grant on that department.
func (s *TeamServiceImpl) canManage(ctx context.Context, claims *utils.UserClaims, departmentID int64) (bool, error) {
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

func claimsFrom(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	return claims, nil
}

func (s *TeamServiceImpl) CreateTeam(ctx context.Context, req CreateTeamRequest) (*Team, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name == "" || req.DepartmentID == 0 {
		return nil, models.NewValidationError("name and departmentId are required")
	}

	allowed, err := s.canManage(ctx, claims, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbidden("No write access to this department")
	}

	now := time.Now()
	team := &Team{
		TenantID:     claims.TenantID,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Description:  req.Description,
		LeaderID:     req.LeaderID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, team); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "team", team.ID, map[string]interface{}{
		"name":         team.Name,
		"departmentId": team.DepartmentID,
	})
	return team, nil
}

func (s *TeamServiceImpl) GetTeam(ctx context.Context, id int64) (*Team, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	team, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, models.NewNotFound("Team not found")
	}
	return team, nil
}

func (s *TeamServiceImpl) ListTeams(ctx context.Context, departmentID *int64) ([]Team, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, claims.TenantID, departmentID)
}

func (s *TeamServiceImpl) UpdateTeam(ctx context.Context, id int64, req UpdateTeamRequest) (*Team, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, claims, team.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbidden("No write access to this department")
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.LeaderID != nil {
		team.LeaderID = req.LeaderID
	}
	team.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, team); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "team", team.ID, nil)
	return team, nil
}

func (s *TeamServiceImpl) DeleteTeam(ctx context.Context, id int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, claims, team.DepartmentID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbidden("No write access to this department")
	}

	deleted, err := s.Repo.Delete(ctx, id, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("Team not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "team", id, nil)
	return nil
}

func (s *TeamServiceImpl) ListMembers(ctx context.Context, teamID int64) ([]Member, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.Repo.ListMembers(ctx, teamID, claims.TenantID)
}

func (s *TeamServiceImpl) AddMember(ctx context.Context, teamID, userID int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, claims, team.DepartmentID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbidden("No write access to this department")
	}

	if err := s.Repo.AddMember(ctx, teamID, userID); err != nil {
		return err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionAssign, "team", teamID, map[string]interface{}{
		"userId": userID,
	})
	return nil
}

func (s *TeamServiceImpl) RemoveMember(ctx context.Context, teamID, userID int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, claims, team.DepartmentID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbidden("No write access to this department")
	}

	removed, err := s.Repo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFound("Membership not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionRevoke, "team", teamID, map[string]interface{}{
		"userId": userID,
	})
	return nil
}
