package user

import (
	"context"
	"database/sql"
	"strings"

	"assixx/internal/database"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id, tenantID int64) (*User, error)
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindNamesByIDs(ctx context.Context, tenantID int64, ids []int64) (map[int64]string, error)
	List(ctx context.Context, tenantID int64, filter ListFilter) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id, tenantID int64) (bool, error)
}

type UserRepositoryImpl struct {
	db *database.SQLDB
}

func NewUserRepository(db *database.SQLDB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, tenant_id, username, email, first_name, last_name, role, department_id, status, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	var deptID sql.NullInt64
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &deptID, &u.Status, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deptID.Valid {
		u.DepartmentID = &deptID.Int64
	}
	return &u, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (tenant_id, username, email, first_name, last_name, role, department_id, status, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		user.TenantID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Role, user.DepartmentID, user.Status, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ? AND tenant_id = ?`)
	u, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// FindByLogin resolves a user by username or email across tenants; the
// login flow derives the tenant from the matched row.
func (r *UserRepositoryImpl) FindByLogin(ctx context.Context, login string) (*User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ?`)
	u, err := scanUser(r.db.DB.QueryRowContext(ctx, query, login, login))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UserRepositoryImpl) FindNamesByIDs(ctx context.Context, tenantID int64, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := r.db.Rebind(`SELECT id, username FROM users WHERE tenant_id = ? AND id IN (` + placeholders + `)`)

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *UserRepositoryImpl) List(ctx context.Context, tenantID int64, filter ListFilter) ([]User, error) {
	where := []string{"tenant_id = ?"}
	args := []interface{}{tenantID}

	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.DepartmentID != nil {
		where = append(where, "department_id = ?")
		args = append(args, *filter.DepartmentID)
	}
	if filter.Search != "" {
		where = append(where, "(username LIKE ? OR email LIKE ? OR last_name LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(where, " AND ") + ` ORDER BY username ASC LIMIT ? OFFSET ?`)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *User) error {
	query := r.db.Rebind(`
		UPDATE users
		SET email = ?, first_name = ?, last_name = ?, department_id = ?, status = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.DepartmentID, user.Status,
		user.UpdatedAt, user.ID, user.TenantID,
	)
	return err
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id, tenantID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM users WHERE id = ? AND tenant_id = ?`)
	res, err := r.db.DB.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
