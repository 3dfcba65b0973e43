package blackboard

import (
	"context"
	"database/sql"
	"time"

	"assixx/internal/database"
)

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	FindByID(ctx context.Context, id, tenantID int64) (*Entry, error)
	ListVisible(ctx context.Context, tenantID int64, departmentID *int64, includeArchived bool) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
	SetStatus(ctx context.Context, id, tenantID int64, status string) (bool, error)

	Confirm(ctx context.Context, entryID, userID int64) error
	ListConfirmations(ctx context.Context, entryID, tenantID int64) ([]Confirmation, error)
	HasConfirmed(ctx context.Context, entryID, userID int64) (bool, error)

	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type EntryRepositoryImpl struct {
	db *database.SQLDB
}

func NewEntryRepository(db *database.SQLDB) EntryRepository {
	return &EntryRepositoryImpl{db: db}
}

const entryColumns = `id, tenant_id, title, content, priority, org_level, department_id, status, requires_confirmation, author_id, valid_from, valid_until, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*Entry, error) {
	var e Entry
	var deptID sql.NullInt64
	var validFrom, validUntil sql.NullTime
	err := row.Scan(
		&e.ID, &e.TenantID, &e.Title, &e.Content, &e.Priority, &e.OrgLevel, &deptID,
		&e.Status, &e.RequiresConfirmation, &e.AuthorID, &validFrom, &validUntil,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deptID.Valid {
		e.DepartmentID = &deptID.Int64
	}
	if validFrom.Valid {
		e.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		e.ValidUntil = &validUntil.Time
	}
	return &e, nil
}

func (r *EntryRepositoryImpl) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO blackboard_entries (tenant_id, title, content, priority, org_level, department_id, status, requires_confirmation, author_id, valid_from, valid_until, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		e.TenantID, e.Title, e.Content, e.Priority, e.OrgLevel, e.DepartmentID,
		e.Status, e.RequiresConfirmation, e.AuthorID, e.ValidFrom, e.ValidUntil,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *EntryRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*Entry, error) {
	query := r.db.Rebind(`SELECT ` + entryColumns + ` FROM blackboard_entries WHERE id = ? AND tenant_id = ?`)
	e, err := scanEntry(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListVisible returns active entries scoped to the viewer: company-wide
// ones always, department-scoped ones only for the given department.
func (r *EntryRepositoryImpl) ListVisible(ctx context.Context, tenantID int64, departmentID *int64, includeArchived bool) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM blackboard_entries WHERE tenant_id = ?`
	args := []interface{}{tenantID}

	if departmentID != nil {
		query += ` AND (org_level = 'company' OR (org_level = 'department' AND department_id = ?))`
		args = append(args, *departmentID)
	}
	if !includeArchived {
		query += ` AND status = ?`
		args = append(args, StatusActive)
	}
	query += ` ORDER BY priority = 'urgent' DESC, created_at DESC`

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *EntryRepositoryImpl) Update(ctx context.Context, e *Entry) error {
	query := r.db.Rebind(`
		UPDATE blackboard_entries
		SET title = ?, content = ?, priority = ?, valid_until = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		e.Title, e.Content, e.Priority, e.ValidUntil, e.UpdatedAt, e.ID, e.TenantID)
	return err
}

func (r *EntryRepositoryImpl) SetStatus(ctx context.Context, id, tenantID int64, status string) (bool, error) {
	query := r.db.Rebind(`UPDATE blackboard_entries SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND tenant_id = ?`)
	res, err := r.db.DB.ExecContext(ctx, query, status, id, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *EntryRepositoryImpl) Confirm(ctx context.Context, entryID, userID int64) error {
	query := r.db.Rebind(`INSERT INTO blackboard_confirmations (entry_id, user_id, confirmed_at) VALUES (?, ?, CURRENT_TIMESTAMP)`)
	_, err := r.db.DB.ExecContext(ctx, query, entryID, userID)
	return err
}

func (r *EntryRepositoryImpl) ListConfirmations(ctx context.Context, entryID, tenantID int64) ([]Confirmation, error) {
	query := r.db.Rebind(`
		SELECT c.entry_id, c.user_id, u.username, c.confirmed_at
		FROM blackboard_confirmations c
		JOIN users u ON u.id = c.user_id
		WHERE c.entry_id = ? AND u.tenant_id = ?
		ORDER BY c.confirmed_at ASC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, entryID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confirmations := []Confirmation{}
	for rows.Next() {
		var conf Confirmation
		if err := rows.Scan(&conf.EntryID, &conf.UserID, &conf.Username, &conf.ConfirmedAt); err != nil {
			return nil, err
		}
		confirmations = append(confirmations, conf)
	}
	return confirmations, rows.Err()
}

func (r *EntryRepositoryImpl) HasConfirmed(ctx context.Context, entryID, userID int64) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM blackboard_confirmations WHERE entry_id = ? AND user_id = ?`)
	var count int64
	if err := r.db.DB.QueryRowContext(ctx, query, entryID, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActivateDue publishes scheduled entries whose valid_from has passed.
func (r *EntryRepositoryImpl) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE blackboard_entries
		SET status = ?, updated_at = ?
		WHERE status = ? AND valid_from IS NOT NULL AND valid_from <= ?
	`)
	res, err := r.db.DB.ExecContext(ctx, query, StatusActive, now, StatusScheduled, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ArchiveExpired retires active entries past their valid_until.
func (r *EntryRepositoryImpl) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE blackboard_entries
		SET status = ?, updated_at = ?
		WHERE status = ? AND valid_until IS NOT NULL AND valid_until < ?
	`)
	res, err := r.db.DB.ExecContext(ctx, query, StatusArchived, now, StatusActive, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
