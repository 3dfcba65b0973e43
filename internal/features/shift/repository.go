package shift

import (
	"context"
	"database/sql"

	"assixx/internal/database"
)

type ShiftRepository interface {
	CreatePlan(ctx context.Context, p *Plan) error
	FindPlanByID(ctx context.Context, id, tenantID int64) (*Plan, error)
	ListPlans(ctx context.Context, tenantID int64, departmentID *int64) ([]Plan, error)
	DeletePlan(ctx context.Context, id, tenantID int64) (bool, error)

	CreateEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, planID int64) ([]Entry, error)
	DeleteEntry(ctx context.Context, id, planID int64) (bool, error)
}

type ShiftRepositoryImpl struct {
	db *database.SQLDB
}

func NewShiftRepository(db *database.SQLDB) ShiftRepository {
	return &ShiftRepositoryImpl{db: db}
}

const planColumns = `id, tenant_id, department_id, team_id, name, starts_on, ends_on, created_by, created_at, updated_at`

func scanPlan(row interface{ Scan(...interface{}) error }) (*Plan, error) {
	var p Plan
	var teamID sql.NullInt64
	err := row.Scan(&p.ID, &p.TenantID, &p.DepartmentID, &teamID, &p.Name,
		&p.StartsOn, &p.EndsOn, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if teamID.Valid {
		p.TeamID = &teamID.Int64
	}
	return &p, nil
}

func (r *ShiftRepositoryImpl) CreatePlan(ctx context.Context, p *Plan) error {
	query := `
		INSERT INTO shift_plans (tenant_id, department_id, team_id, name, starts_on, ends_on, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		p.TenantID, p.DepartmentID, p.TeamID, p.Name, p.StartsOn, p.EndsOn,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *ShiftRepositoryImpl) FindPlanByID(ctx context.Context, id, tenantID int64) (*Plan, error) {
	query := r.db.Rebind(`SELECT ` + planColumns + ` FROM shift_plans WHERE id = ? AND tenant_id = ?`)
	p, err := scanPlan(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *ShiftRepositoryImpl) ListPlans(ctx context.Context, tenantID int64, departmentID *int64) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM shift_plans WHERE tenant_id = ?`
	args := []interface{}{tenantID}
	if departmentID != nil {
		query += ` AND department_id = ?`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY starts_on DESC`

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// DeletePlan removes the plan and all its entries together.
func (r *ShiftRepositoryImpl) DeletePlan(ctx context.Context, id, tenantID int64) (bool, error) {
	var removed bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM shift_plans WHERE id = ? AND tenant_id = ?`), id, tenantID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = affected > 0
		if !removed {
			return nil
		}
		_, err = tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM shift_entries WHERE plan_id = ?`), id)
		return err
	})
	return removed, err
}

func (r *ShiftRepositoryImpl) CreateEntry(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO shift_entries (plan_id, user_id, shift_date, shift_type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		e.PlanID, e.UserID, e.Date, e.ShiftType, e.Note, e.CreatedAt)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *ShiftRepositoryImpl) ListEntries(ctx context.Context, planID int64) ([]Entry, error) {
	query := r.db.Rebind(`
		SELECT e.id, e.plan_id, e.user_id, u.username, e.shift_date, e.shift_type, e.note, e.created_at
		FROM shift_entries e
		JOIN users u ON u.id = e.user_id
		WHERE e.plan_id = ?
		ORDER BY e.shift_date ASC, e.shift_type ASC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.PlanID, &e.UserID, &e.Username, &e.Date, &e.ShiftType, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ShiftRepositoryImpl) DeleteEntry(ctx context.Context, id, planID int64) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM shift_entries WHERE id = ? AND plan_id = ?`), id, planID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
