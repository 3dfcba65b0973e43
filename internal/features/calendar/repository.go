package calendar

import (
	"context"
	"database/sql"

	"assixx/internal/database"
)

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id, tenantID int64) (*Event, error)
	ListVisible(ctx context.Context, tenantID int64, departmentID *int64, r Range) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id, tenantID int64) (bool, error)
}

type EventRepositoryImpl struct {
	db *database.SQLDB
}

func NewEventRepository(db *database.SQLDB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, tenant_id, title, description, location, org_level, department_id, all_day, starts_at, ends_at, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*Event, error) {
	var e Event
	var deptID sql.NullInt64
	err := row.Scan(
		&e.ID, &e.TenantID, &e.Title, &e.Description, &e.Location, &e.OrgLevel,
		&deptID, &e.AllDay, &e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deptID.Valid {
		e.DepartmentID = &deptID.Int64
	}
	return &e, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO calendar_events (tenant_id, title, description, location, org_level, department_id, all_day, starts_at, ends_at, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		e.TenantID, e.Title, e.Description, e.Location, e.OrgLevel, e.DepartmentID,
		e.AllDay, e.StartsAt, e.EndsAt, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*Event, error) {
	query := r.db.Rebind(`SELECT ` + eventColumns + ` FROM calendar_events WHERE id = ? AND tenant_id = ?`)
	e, err := scanEvent(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *EventRepositoryImpl) ListVisible(ctx context.Context, tenantID int64, departmentID *int64, rng Range) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE tenant_id = ?`
	args := []interface{}{tenantID}

	if departmentID != nil {
		query += ` AND (org_level = 'company' OR (org_level = 'department' AND department_id = ?))`
		args = append(args, *departmentID)
	}
	if !rng.From.IsZero() {
		query += ` AND ends_at >= ?`
		args = append(args, rng.From)
	}
	if !rng.To.IsZero() {
		query += ` AND starts_at <= ?`
		args = append(args, rng.To)
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *EventRepositoryImpl) Update(ctx context.Context, e *Event) error {
	query := r.db.Rebind(`
		UPDATE calendar_events
		SET title = ?, description = ?, location = ?, starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.UpdatedAt, e.ID, e.TenantID)
	return err
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id, tenantID int64) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM calendar_events WHERE id = ? AND tenant_id = ?`), id, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
