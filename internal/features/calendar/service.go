package calendar

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"assixx/internal/common/models"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, r Range) ([]Event, error)
	UpdateEvent(ctx context.Context, id int64, req UpdateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ExportCSV(ctx context.Context, r Range) ([]byte, error)
}

type EventServiceImpl struct {
	Repo         EventRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewEventService(repo EventRepository, userRepo user.UserRepository, auditService audit.AuditService) EventService {
	return &EventServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
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

func (s *EventServiceImpl) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role != models.RoleRoot && role != models.RoleAdmin {
		return nil, models.NewForbidden("Only admins can create events")
	}
	if req.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if req.EndsAt.Before(req.StartsAt) {
		return nil, models.NewValidationError("endsAt must be after startsAt")
	}
	if req.OrgLevel == "" {
		req.OrgLevel = "company"
	}
	if req.OrgLevel == "department" && req.DepartmentID == nil {
		return nil, models.NewValidationError("Department-scoped events need a department")
	}

	now := time.Now()
	event := &Event{
		TenantID:     claims.TenantID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		OrgLevel:     req.OrgLevel,
		DepartmentID: req.DepartmentID,
		AllDay:       req.AllDay,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		CreatedBy:    claims.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "calendar_event", event.ID, map[string]interface{}{
		"title": event.Title,
	})
	return event, nil
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, id int64) (*Event, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.Repo.FindByID(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.NewNotFound("Event not found")
	}
	return event, nil
}

// ListEvents scopes by the caller's current department for employees.
func (s *EventServiceImpl) ListEvents(ctx context.Context, r Range) ([]Event, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	var departmentID *int64
	if models.Role(claims.Role) == models.RoleEmployee {
		usr, err := s.UserRepo.FindByID(ctx, claims.UserID, claims.TenantID)
		if err != nil {
			return nil, err
		}
		if usr != nil {
			departmentID = usr.DepartmentID
		}
	}

	return s.Repo.ListVisible(ctx, claims.TenantID, departmentID, r)
}

func (s *EventServiceImpl) UpdateEvent(ctx context.Context, id int64, req UpdateEventRequest) (*Event, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	role := models.Role(claims.Role)
	if role != models.RoleRoot && (role != models.RoleAdmin || event.CreatedBy != claims.UserID) {
		return nil, models.NewForbidden("Only the creator or root can edit this event")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, models.NewValidationError("endsAt must be after startsAt")
	}
	event.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, event); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "calendar_event", event.ID, nil)
	return event, nil
}

func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return err
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	role := models.Role(claims.Role)
	if role != models.RoleRoot && (role != models.RoleAdmin || event.CreatedBy != claims.UserID) {
		return models.NewForbidden("Only the creator or root can delete this event")
	}

	deleted, err := s.Repo.Delete(ctx, id, claims.TenantID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound("Event not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "calendar_event", id, nil)
	return nil
}

// ExportCSV writes the caller's visible events as CSV.
func (s *EventServiceImpl) ExportCSV(ctx context.Context, r Range) ([]byte, error) {
	events, err := s.ListEvents(ctx, r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "title", "location", "orgLevel", "startsAt", "endsAt", "allDay"}); err != nil {
		return nil, err
	}
	for _, e := range events {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			e.Location,
			e.OrgLevel,
			e.StartsAt.Format(time.RFC3339),
			e.EndsAt.Format(time.RFC3339),
			strconv.FormatBool(e.AllDay),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionExport, "calendar_event", 0, map[string]interface{}{
		"count": len(events),
	})
	return buf.Bytes(), nil
}
