package kvp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"assixx/internal/common/models"
	"assixx/internal/config"
	"assixx/internal/features/audit"
	"assixx/internal/features/user"
	"assixx/pkg/utils"
)

type SuggestionService interface {
	CreateSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, error)
	GetSuggestion(ctx context.Context, id int64) (*Suggestion, error)
	ListSuggestions(ctx context.Context, q ListQuery) ([]Suggestion, error)
	UpdateSuggestion(ctx context.Context, id int64, req UpdateSuggestionRequest) (*Suggestion, error)
	ChangeStatus(ctx context.Context, id int64, req StatusChangeRequest) (*Suggestion, error)
	ArchiveSuggestion(ctx context.Context, id int64) error
	SaveAttachment(ctx context.Context, suggestionID int64, fileName, mimeType string, data []byte) (*Attachment, error)
	ListAttachments(ctx context.Context, suggestionID int64) ([]Attachment, error)
	OpenAttachment(ctx context.Context, attachmentID int64) (*Attachment, string, error)
	ExportXLSX(ctx context.Context, q ListQuery) ([]byte, error)
}

type SuggestionServiceImpl struct {
	Repo         SuggestionRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
	Config       *config.Config
}

func NewSuggestionService(repo SuggestionRepository, userRepo user.UserRepository, auditService audit.AuditService, cfg *config.Config) SuggestionService {
	return &SuggestionServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
		AuditService: auditService,
		Config:       cfg,
	}
}

// viewer resolves the caller into a visibility principal. The
// department comes from a fresh user lookup, not from the token, so a
// reassignment takes effect immediately.
func (s *SuggestionServiceImpl) viewer(ctx context.Context) (Viewer, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return Viewer{}, models.NewUnauthorized("No authenticated principal")
	}

	v := Viewer{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Role:     models.Role(claims.Role),
	}
	if v.Role != models.RoleRoot {
		usr, err := s.UserRepo.FindByID(ctx, claims.UserID, claims.TenantID)
		if err != nil {
			return Viewer{}, err
		}
		if usr != nil {
			v.DepartmentID = usr.DepartmentID
		}
	}
	return v, nil
}

func (s *SuggestionServiceImpl) CreateSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}

	if req.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if req.OrgLevel == "" {
		req.OrgLevel = OrgLevelCompany
	}
	if !validOrgLevel(req.OrgLevel) {
		return nil, models.NewValidationError("Invalid org level")
	}

	departmentID := req.DepartmentID
	if req.OrgLevel == OrgLevelDepartment && departmentID == nil {
		departmentID = v.DepartmentID
		if departmentID == nil {
			return nil, models.NewValidationError("Department-level suggestions need a department")
		}
	}

	now := time.Now()
	suggestion := &Suggestion{
		TenantID:     v.TenantID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       StatusNew,
		Priority:     req.Priority,
		OrgLevel:     req.OrgLevel,
		DepartmentID: departmentID,
		SubmittedBy:  v.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, suggestion); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionCreate, "kvp_suggestion", suggestion.ID, map[string]interface{}{
		"title":    suggestion.Title,
		"orgLevel": suggestion.OrgLevel,
	})
	return suggestion, nil
}

func (s *SuggestionServiceImpl) GetSuggestion(ctx context.Context, id int64) (*Suggestion, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.Repo.FindByID(ctx, id, v.TenantID)
	if err != nil {
		return nil, err
	}
	// Hidden and missing look the same to the caller.
	if suggestion == nil || !CanView(v, suggestion) {
		return nil, models.NewNotFound("Suggestion not found")
	}
	return suggestion, nil
}

func (s *SuggestionServiceImpl) ListSuggestions(ctx context.Context, q ListQuery) ([]Suggestion, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	if q.Status != "" && !validStatus(q.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	return s.Repo.List(ctx, v, q)
}

func (s *SuggestionServiceImpl) UpdateSuggestion(ctx context.Context, id int64, req UpdateSuggestionRequest) (*Suggestion, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}

	isModerator := v.Role == models.RoleRoot || v.Role == models.RoleAdmin
	if !isModerator {
		if suggestion.SubmittedBy != v.UserID {
			return nil, models.NewForbidden("Only the submitter can edit a suggestion")
		}
		if suggestion.Status != StatusNew {
			return nil, models.NewConflict("Suggestions can only be edited before review")
		}
	}

	if req.Title != nil {
		suggestion.Title = *req.Title
	}
	if req.Description != nil {
		suggestion.Description = *req.Description
	}
	if req.Priority != nil {
		suggestion.Priority = *req.Priority
	}
	suggestion.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, suggestion); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionUpdate, "kvp_suggestion", suggestion.ID, nil)
	return suggestion, nil
}

func (s *SuggestionServiceImpl) ChangeStatus(ctx context.Context, id int64, req StatusChangeRequest) (*Suggestion, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	if v.Role != models.RoleRoot && v.Role != models.RoleAdmin {
		return nil, models.NewForbidden("Only admins can change suggestion status")
	}
	if !validStatus(req.Status) {
		return nil, models.NewValidationError("Invalid status")
	}

	updated, err := s.Repo.SetStatus(ctx, id, v.TenantID, req.Status, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, models.NewNotFound("Suggestion not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionStatus, "kvp_suggestion", id, map[string]interface{}{
		"status": req.Status,
	})
	return s.Repo.FindByID(ctx, id, v.TenantID)
}

// ArchiveSuggestion is the soft delete: the row stays, status flips.
func (s *SuggestionServiceImpl) ArchiveSuggestion(ctx context.Context, id int64) error {
	v, err := s.viewer(ctx)
	if err != nil {
		return err
	}
	if v.Role != models.RoleRoot && v.Role != models.RoleAdmin {
		suggestion, err := s.GetSuggestion(ctx, id)
		if err != nil {
			return err
		}
		if suggestion.SubmittedBy != v.UserID {
			return models.NewForbidden("Only the submitter or an admin can archive a suggestion")
		}
	}

	archived, err := s.Repo.SetStatus(ctx, id, v.TenantID, StatusArchived, nil)
	if err != nil {
		return err
	}
	if !archived {
		return models.NewNotFound("Suggestion not found")
	}

	_ = s.AuditService.Log(ctx, models.AuditActionDelete, "kvp_suggestion", id, map[string]interface{}{
		"softDelete": true,
	})
	return nil
}

func (s *SuggestionServiceImpl) SaveAttachment(ctx context.Context, suggestionID int64, fileName, mimeType string, data []byte) (*Attachment, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetSuggestion(ctx, suggestionID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("Empty file")
	}

	storedName := uuid.NewString() + filepath.Ext(fileName)
	dir := filepath.Join(s.Config.UploadPath, "kvp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, storedName), data, 0o644); err != nil {
		return nil, err
	}

	attachment := &Attachment{
		SuggestionID: suggestionID,
		FileName:     fileName,
		StoredName:   storedName,
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
		UploadedBy:   v.UserID,
		CreatedAt:    time.Now(),
	}
	if err := s.Repo.CreateAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *SuggestionServiceImpl) ListAttachments(ctx context.Context, suggestionID int64) ([]Attachment, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetSuggestion(ctx, suggestionID); err != nil {
		return nil, err
	}
	return s.Repo.ListAttachments(ctx, suggestionID, v.TenantID)
}

// OpenAttachment returns the metadata and the absolute path for
// streaming; visibility is checked through the owning suggestion.
func (s *SuggestionServiceImpl) OpenAttachment(ctx context.Context, attachmentID int64) (*Attachment, string, error) {
	v, err := s.viewer(ctx)
	if err != nil {
		return nil, "", err
	}

	attachment, err := s.Repo.FindAttachment(ctx, attachmentID, v.TenantID)
	if err != nil {
		return nil, "", err
	}
	if attachment == nil {
		return nil, "", models.NewNotFound("Attachment not found")
	}
	if _, err := s.GetSuggestion(ctx, attachment.SuggestionID); err != nil {
		return nil, "", err
	}
	return attachment, filepath.Join(s.Config.UploadPath, "kvp", attachment.StoredName), nil
}

// ExportXLSX renders the viewer's visible suggestions into a workbook.
func (s *SuggestionServiceImpl) ExportXLSX(ctx context.Context, q ListQuery) ([]byte, error) {
	suggestions, err := s.ListSuggestions(ctx, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Suggestions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Title", "Status", "Priority", "Org Level", "Department", "Submitted By", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, sg := range suggestions {
		dept := ""
		if sg.DepartmentID != nil {
			dept = fmt.Sprintf("%d", *sg.DepartmentID)
		}
		values := []interface{}{
			sg.ID, sg.Title, sg.Status, sg.Priority, sg.OrgLevel, dept,
			sg.SubmittedBy, sg.CreatedAt.Format("2006-01-02"),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	_ = s.AuditService.Log(ctx, models.AuditActionExport, "kvp_suggestion", 0, map[string]interface{}{
		"count": len(suggestions),
	})
	return buf.Bytes(), nil
}
