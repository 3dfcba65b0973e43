package kvp

import (
	"context"
	"database/sql"

	"assixx/internal/database"
)

type SuggestionRepository interface {
	Create(ctx context.Context, s *Suggestion) error
	FindByID(ctx context.Context, id, tenantID int64) (*Suggestion, error)
	List(ctx context.Context, viewer Viewer, q ListQuery) ([]Suggestion, error)
	Update(ctx context.Context, s *Suggestion) error
	SetStatus(ctx context.Context, id, tenantID int64, status string, assignedTo *int64) (bool, error)

	CreateAttachment(ctx context.Context, a *Attachment) error
	ListAttachments(ctx context.Context, suggestionID, tenantID int64) ([]Attachment, error)
	FindAttachment(ctx context.Context, id, tenantID int64) (*Attachment, error)
}

type SuggestionRepositoryImpl struct {
	db *database.SQLDB
}

func NewSuggestionRepository(db *database.SQLDB) SuggestionRepository {
	return &SuggestionRepositoryImpl{db: db}
}

const suggestionColumns = `s.id, s.tenant_id, s.title, s.description, s.status, s.priority, s.org_level, s.org_id, s.department_id, s.submitted_by, s.assigned_to, s.shared_by, s.created_at, s.updated_at`

func scanSuggestion(row interface{ Scan(...interface{}) error }) (*Suggestion, error) {
	var s Suggestion
	var orgID, deptID, assignedTo, sharedBy sql.NullInt64
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Title, &s.Description, &s.Status, &s.Priority,
		&s.OrgLevel, &orgID, &deptID, &s.SubmittedBy, &assignedTo, &sharedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orgID.Valid {
		s.OrgID = &orgID.Int64
	}
	if deptID.Valid {
		s.DepartmentID = &deptID.Int64
	}
	if assignedTo.Valid {
		s.AssignedTo = &assignedTo.Int64
	}
	if sharedBy.Valid {
		s.SharedBy = &sharedBy.Int64
	}
	return &s, nil
}

func (r *SuggestionRepositoryImpl) Create(ctx context.Context, s *Suggestion) error {
	query := `
		INSERT INTO kvp_suggestions (tenant_id, title, description, status, priority, org_level, org_id, department_id, submitted_by, assigned_to, shared_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		s.TenantID, s.Title, s.Description, s.Status, s.Priority, s.OrgLevel,
		s.OrgID, s.DepartmentID, s.SubmittedBy, s.AssignedTo, s.SharedBy,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *SuggestionRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*Suggestion, error) {
	query := r.db.Rebind(`SELECT ` + suggestionColumns + ` FROM kvp_suggestions s WHERE s.id = ? AND s.tenant_id = ?`)
	s, err := scanSuggestion(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// List executes the visibility scope built for the viewer. The WHERE
// fragment and its parameters come from BuildVisibilityQuery unchanged.
func (r *SuggestionRepositoryImpl) List(ctx context.Context, viewer Viewer, q ListQuery) ([]Suggestion, error) {
	where, args := BuildVisibilityQuery(viewer, q)

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := int64(0)
	if q.Page > 1 {
		offset = (q.Page - 1) * limit
	}

	query := r.db.Rebind(`SELECT ` + suggestionColumns + ` FROM kvp_suggestions s WHERE ` + where +
		` ORDER BY s.created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []Suggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, *s)
	}
	return suggestions, rows.Err()
}

func (r *SuggestionRepositoryImpl) Update(ctx context.Context, s *Suggestion) error {
	query := r.db.Rebind(`
		UPDATE kvp_suggestions
		SET title = ?, description = ?, priority = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		s.Title, s.Description, s.Priority, s.UpdatedAt, s.ID, s.TenantID)
	return err
}

func (r *SuggestionRepositoryImpl) SetStatus(ctx context.Context, id, tenantID int64, status string, assignedTo *int64) (bool, error) {
	query := r.db.Rebind(`
		UPDATE kvp_suggestions
		SET status = ?, assigned_to = COALESCE(?, assigned_to), updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND tenant_id = ?
	`)
	res, err := r.db.DB.ExecContext(ctx, query, status, assignedTo, id, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SuggestionRepositoryImpl) CreateAttachment(ctx context.Context, a *Attachment) error {
	query := `
		INSERT INTO kvp_attachments (suggestion_id, file_name, stored_name, file_size, mime_type, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		a.SuggestionID, a.FileName, a.StoredName, a.FileSize, a.MimeType, a.UploadedBy, a.CreatedAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *SuggestionRepositoryImpl) ListAttachments(ctx context.Context, suggestionID, tenantID int64) ([]Attachment, error) {
	query := r.db.Rebind(`
		SELECT a.id, a.suggestion_id, a.file_name, a.stored_name, a.file_size, a.mime_type, a.uploaded_by, a.created_at
		FROM kvp_attachments a
		JOIN kvp_suggestions s ON s.id = a.suggestion_id
		WHERE a.suggestion_id = ? AND s.tenant_id = ?
		ORDER BY a.created_at ASC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, suggestionID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []Attachment{}
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.SuggestionID, &a.FileName, &a.StoredName, &a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *SuggestionRepositoryImpl) FindAttachment(ctx context.Context, id, tenantID int64) (*Attachment, error) {
	query := r.db.Rebind(`
		SELECT a.id, a.suggestion_id, a.file_name, a.stored_name, a.file_size, a.mime_type, a.uploaded_by, a.created_at
		FROM kvp_attachments a
		JOIN kvp_suggestions s ON s.id = a.suggestion_id
		WHERE a.id = ? AND s.tenant_id = ?
	`)
	var a Attachment
	err := r.db.DB.QueryRowContext(ctx, query, id, tenantID).
		Scan(&a.ID, &a.SuggestionID, &a.FileName, &a.StoredName, &a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
