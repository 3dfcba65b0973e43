package department

import (
	"context"
	"database/sql"
	"strings"

	"assixx/internal/database"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept *Department) error
	FindByID(ctx context.Context, id, tenantID int64) (*Department, error)
	List(ctx context.Context, tenantID int64, includeInactive bool) ([]Department, error)
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id, tenantID int64) (bool, error)

	CreateGroup(ctx context.Context, group *Group, departmentIDs []int64) error
	FindGroupByID(ctx context.Context, id, tenantID int64) (*Group, error)
	ListGroups(ctx context.Context, tenantID int64) ([]Group, error)
	DeleteGroup(ctx context.Context, id, tenantID int64) (bool, error)
	ListGroupMembers(ctx context.Context, groupID, tenantID int64) ([]Department, error)
	AddGroupMember(ctx context.Context, groupID, departmentID, tenantID int64) error
	RemoveGroupMember(ctx context.Context, groupID, departmentID, tenantID int64) (bool, error)
}

type DepartmentRepositoryImpl struct {
	db *database.SQLDB
}

func NewDepartmentRepository(db *database.SQLDB) DepartmentRepository {
	return &DepartmentRepositoryImpl{db: db}
}

const departmentColumns = `id, tenant_id, name, description, parent_id, is_active, created_at, updated_at`

func scanDepartment(row interface{ Scan(...interface{}) error }) (*Department, error) {
	var d Department
	var parentID sql.NullInt64
	err := row.Scan(&d.ID, &d.TenantID, &d.Name, &d.Description, &parentID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		d.ParentID = &parentID.Int64
	}
	return &d, nil
}

func (r *DepartmentRepositoryImpl) Create(ctx context.Context, dept *Department) error {
	query := `
		INSERT INTO departments (tenant_id, name, description, parent_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query,
		dept.TenantID, dept.Name, dept.Description, dept.ParentID, dept.IsActive,
		dept.CreatedAt, dept.UpdatedAt)
	if err != nil {
		return err
	}
	dept.ID = id
	return nil
}

func (r *DepartmentRepositoryImpl) FindByID(ctx context.Context, id, tenantID int64) (*Department, error) {
	query := r.db.Rebind(`SELECT ` + departmentColumns + ` FROM departments WHERE id = ? AND tenant_id = ?`)
	d, err := scanDepartment(r.db.DB.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *DepartmentRepositoryImpl) List(ctx context.Context, tenantID int64, includeInactive bool) ([]Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE tenant_id = ?`
	args := []interface{}{tenantID}
	if !includeInactive {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDepartments(rows)
}

func collectDepartments(rows *sql.Rows) ([]Department, error) {
	departments := []Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepositoryImpl) Update(ctx context.Context, dept *Department) error {
	query := r.db.Rebind(`
		UPDATE departments
		SET name = ?, description = ?, parent_id = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		dept.Name, dept.Description, dept.ParentID, dept.IsActive, dept.UpdatedAt,
		dept.ID, dept.TenantID)
	return err
}

func (r *DepartmentRepositoryImpl) Delete(ctx context.Context, id, tenantID int64) (bool, error) {
	return r.execAffected(ctx, `DELETE FROM departments WHERE id = ? AND tenant_id = ?`, id, tenantID)
}

// CreateGroup inserts the group and its initial members atomically.
func (r *DepartmentRepositoryImpl) CreateGroup(ctx context.Context, group *Group, departmentIDs []int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		insertGroup := `
			INSERT INTO department_groups (tenant_id, name, description, created_at)
			VALUES (?, ?, ?, ?)
		`
		id, err := r.db.InsertReturningID(ctx, tx, insertGroup, group.TenantID, group.Name, group.Description, group.CreatedAt)
		if err != nil {
			return err
		}
		group.ID = id

		if len(departmentIDs) == 0 {
			return nil
		}
		values := strings.TrimSuffix(strings.Repeat("(?, ?),", len(departmentIDs)), ",")
		insertMembers := r.db.Rebind(`INSERT INTO department_group_members (group_id, department_id) VALUES ` + values)
		args := make([]interface{}, 0, len(departmentIDs)*2)
		for _, deptID := range departmentIDs {
			args = append(args, group.ID, deptID)
		}
		_, err = tx.ExecContext(ctx, insertMembers, args...)
		return err
	})
}

func (r *DepartmentRepositoryImpl) FindGroupByID(ctx context.Context, id, tenantID int64) (*Group, error) {
	query := r.db.Rebind(`SELECT id, tenant_id, name, description, created_at FROM department_groups WHERE id = ? AND tenant_id = ?`)
	var g Group
	err := r.db.DB.QueryRowContext(ctx, query, id, tenantID).
		Scan(&g.ID, &g.TenantID, &g.Name, &g.Description, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *DepartmentRepositoryImpl) ListGroups(ctx context.Context, tenantID int64) ([]Group, error) {
	query := r.db.Rebind(`SELECT id, tenant_id, name, description, created_at FROM department_groups WHERE tenant_id = ? ORDER BY name ASC`)
	rows, err := r.db.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.TenantID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteGroup removes the group, its memberships and any grants that
// referenced it, in one transaction.
func (r *DepartmentRepositoryImpl) DeleteGroup(ctx context.Context, id, tenantID int64) (bool, error) {
	var removed bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM department_groups WHERE id = ? AND tenant_id = ?`), id, tenantID)
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

		if _, err := tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM department_group_members WHERE group_id = ?`), id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM admin_group_permissions WHERE group_id = ? AND tenant_id = ?`), id, tenantID)
		return err
	})
	return removed, err
}

func (r *DepartmentRepositoryImpl) ListGroupMembers(ctx context.Context, groupID, tenantID int64) ([]Department, error) {
	query := r.db.Rebind(`
		SELECT d.` + strings.ReplaceAll(departmentColumns, ", ", ", d.") + `
		FROM departments d
		JOIN department_group_members m ON m.department_id = d.id
		WHERE m.group_id = ? AND d.tenant_id = ?
		ORDER BY d.name ASC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, groupID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDepartments(rows)
}

func (r *DepartmentRepositoryImpl) AddGroupMember(ctx context.Context, groupID, departmentID, tenantID int64) error {
	query := r.db.Rebind(`INSERT INTO department_group_members (group_id, department_id) VALUES (?, ?)`)
	_, err := r.db.DB.ExecContext(ctx, query, groupID, departmentID)
	return err
}

func (r *DepartmentRepositoryImpl) RemoveGroupMember(ctx context.Context, groupID, departmentID, tenantID int64) (bool, error) {
	return r.execAffected(ctx, `DELETE FROM department_group_members WHERE group_id = ? AND department_id = ?`, groupID, departmentID)
}

func (r *DepartmentRepositoryImpl) execAffected(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
