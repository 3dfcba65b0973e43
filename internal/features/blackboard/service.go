package blackboard

import (
	"context"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type EntryService interface {
	CreateEntry(ctx context.Context, req CreateEntryRequest) (*Entry, error)
	GetEntry(ctx context.Context, id int64) (*Entry, error)
	ListEntries(ctx context.Context, includeArchived bool) ([]Entry, error)
	UpdateEntry(ctx context.Context, id int64, req UpdateEntryRequest) (*Entry, error)
	ArchiveEntry(ctx context.Context, id int64) error
	ConfirmEntry(ctx context.Context, id int64) error
	ListConfirmations(ctx context.Context, id int64) ([]Confirmation, error)
	Sweep(ctx context.Context) error
}

type EntryServiceImpl struct {
	Repo         EntryRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewEntryService(repo EntryRepository, userRepo user.UserRepository, auditService audit.AuditService) EntryService {
	return &EntryServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func requireClaims(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	return claims, nil
}

func requireModerator(ctx context.Context) (*utils.UserClaims, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	role := models.Role(claims.Role)
	if role != models.RoleRoot && role != models.RoleAdmin {
		return nil, models.NewForbidden("Only admins can manage blackboard entries")
	}
	return claims, nil
}

func (s *EntryServiceImpl) CreateEntry(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	claims, err := requireModerator(ctx)
	if err != nil {
		return nil, err
	}

	if req.Title == "" || req.Content == "" {
		return nil, models.NewValidationError("title and content are required")
	}
	if req.Priority == "" {
		req.Priority = PriorityNormal
	}
	if !validPriority(req.Priority) {
		return nil, models.NewValidationError("Invalid priority")
	}
	if req.OrgLevel == "" {
		req.OrgLevel = "company"
	}
	if req.OrgLevel == "department" && req.DepartmentID == nil {
		return nil, models.NewValidationError("Department-scoped entries need a department")
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, models.NewValidationError("validUntil must be after validFrom")
	}

	now := time.Now()
	status := StatusActive
	if req.ValidFrom != nil && req.ValidFrom.After(now) {
		status = StatusScheduled
	}

	entry := &Entry{
		TenantID:             claims.TenantID,
		Title:                req.Title,
		Content:              req.Content,
		Priority:             req.Priority,
		OrgLevel:             req.OrgLevel,
		DepartmentID:         req.DepartmentID,
		Status:               status,
		RequiresConfirmation: req.RequiresConfirmation,
		AuthorID:             claims.UserID,
		ValidFrom:            req.ValidFrom,
		ValidUntil:           req.ValidUntil,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "blackboard_entry", entry.ID, map[string]interface{}{
		"title":    entry.Title,
		"priority": entry.Priority,
	})
	return entry, nil
}

func (s *EntryServiceImpl) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, models.NewNotFound("Entry not found")
	}
	return entry, nil
}

// ListEntries scopes by the caller's current department for employees;
// root and admins see all entries in the tenant.
func (s *EntryServiceImpl) ListEntries(ctx context.Context, includeArchived bool) ([]Entry, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	var departmentID *int64
	if role == models.RoleEmployee {
		usr, err := s.UserRepo.FindByID(ctx, claims.UserID, claims.TenantID)
		if err != nil {
			return nil, err
		}
		if usr != nil {
			departmentID = usr.DepartmentID
		}
		includeArchived = false
	}

	return s.Repo.ListVisible(ctx, claims.TenantID, departmentID, includeArchived)
}

func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, id int64, req UpdateEntryRequest) (*Entry, error) {
	if _, err := requireModerator(ctx); err != nil {
		return nil, err
	}

	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Content != nil {
		entry.Content = *req.Content
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return nil, models.NewValidationError("Invalid priority")
		}
		entry.Priority = *req.Priority
	}
	if req.ValidUntil != nil {
		entry.ValidUntil = req.ValidUntil
	}
	entry.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "blackboard_entry", entry.ID, nil)
	return entry, nil
}

func (s *EntryServiceImpl) ArchiveEntry(ctx context.Context, id int64) error {
	claims, err := requireModerator(ctx)
	if err != nil {
		return err
	}

	archived, err := s.Repo.SetStatus(ctx, id, claims.TenantID, StatusArchived)
	if err != nil {
		return err
	}
	if !archived {
		return models.NewNotFound("Entry not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "blackboard_entry", id, map[string]interface{}{
		"softDelete": true,
	})
	return nil
}

func (s *EntryServiceImpl) ConfirmEntry(ctx context.Context, id int64) error {
	claims, err := requireClaims(ctx)
	if err != nil {
		return err
	}

	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if !entry.RequiresConfirmation {
		return models.NewValidationError("This entry does not require confirmation")
	}

	already, err := s.Repo.HasConfirmed(ctx, id, claims.UserID)
	if err != nil {
		return err
	}
	if already {
		return models.NewConflict("Already confirmed")
	}

	if err := s.Repo.Confirm(ctx, id, claims.UserID); err != nil {
		return err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionConfirm, "blackboard_entry", id, nil)
	return nil
}

func (s *EntryServiceImpl) ListConfirmations(ctx context.Context, id int64) ([]Confirmation, error) {
	claims, err := requireModerator(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetEntry(ctx, id); err != nil {
		return nil, err
	}
	return s.Repo.ListConfirmations(ctx, id, claims.TenantID)
}

// Sweep publishes due scheduled entries and archives expired ones. Runs
// from the cron scheduler without a request principal.
func (s *EntryServiceImpl) Sweep(ctx context.Context) error {
	now := time.Now()
	if _, err := s.Repo.ActivateDue(ctx, now); err != nil {
		return err
	}
	_, err := s.Repo.ArchiveExpired(ctx, now)
	return err
}
