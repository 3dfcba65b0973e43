package team

import (
	"context"
	"database/sql"

	"assixx/internal/database"
)

type TeamRepository interface {
	Create(ctx context.Context, t *Team) error
	FindByID(ctx context.Context, id, tenantID int64) (*Team, error)
	List(ctx context.Context, tenantID int64, departmentID *int64) ([]Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id, tenantID int64) (bool, error)
	ListMembers(ctx context.Context, teamID, tenantID int64) ([]Member, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) (bool, error)
}

type TeamRepositoryImpl struct {
	db *database.SQLDB
}

func NewTeamRepository(db *database.SQLDB) TeamRepository {
	return &TeamRepositoryImpl{db: db}
}

const teamColumns = `id, tenant_id, department_id, name, description, leader_id, created_at, updated_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*Team, error) {
	var t Team
	var leaderID sql.NullInt64
	err := row.Scan(&t.ID, &t.TenantID, &t.DepartmentID, &t.Name, &t.Description, &leaderID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if leaderID.Valid {
		t.LeaderID = &leaderID.Int64
	}
	return &t, nil
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (tenant_id, department_id, name, description, leader_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		t.TenantID, t.DepartmentID, t.Name, t.Description, t.LeaderID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *TeamRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*Team, error) {
	query := r.db.Rebind(`SELECT ` + teamColumns + ` FROM teams WHERE id = ? AND tenant_id = ?`)
	t, err := scanTeam(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *TeamRepositoryImpl) List(ctx context.Context, tenantID int64, departmentID *int64) ([]Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tenant_id = ?`
	args := []interface{}{tenantID}
	if departmentID != nil {
		query += ` AND department_id = ?`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *TeamRepositoryImpl) Update(ctx context.Context, t *Team) error {
	query := r.db.Rebind(`
		UPDATE teams
		SET name = ?, description = ?, leader_id = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		t.Name, t.Description, t.LeaderID, t.UpdatedAt, t.ID, t.TenantID)
	return err
}

// Delete removes the team and its membership rows together.
func (r *TeamRepositoryImpl) Delete(ctx context.Context, id, tenantID int64) (bool, error) {
	var removed bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM teams WHERE id = ? AND tenant_id = ?`), id, tenantID)
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
		_, err = tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM team_members WHERE team_id = ?`), id)
		return err
	})
	return removed, err
}

func (r *TeamRepositoryImpl) ListMembers(ctx context.Context, teamID, tenantID int64) ([]Member, error) {
	query := r.db.Rebind(`
		SELECT u.id, u.username, u.first_name, u.last_name, tm.joined_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = ? AND u.tenant_id = ?
		ORDER BY u.last_name ASC, u.first_name ASC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, teamID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *TeamRepositoryImpl) AddMember(ctx context.Context, teamID, userID int64) error {
	query := r.db.Rebind(`INSERT INTO team_members (team_id, user_id, joined_at) VALUES (?, ?, CURRENT_TIMESTAMP)`)
	_, err := r.db.DB.ExecContext(ctx, query, teamID, userID)
	return err
}

func (r *TeamRepositoryImpl) RemoveMember(ctx context.Context, teamID, userID int64) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`), teamID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
