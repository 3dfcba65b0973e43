package adminperm

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	common_models "assixx/internal/common/models"
	"assixx/internal/database"
)

type PermissionRepository interface {
	FindDirect(ctx context.Context, adminID, departmentID, tenantID int64) (*PermissionFlags, error)
	FindGroupFlagsForDepartment(ctx context.Context, adminID, departmentID, tenantID int64) ([]PermissionFlags, error)
	ListDepartmentGrants(ctx context.Context, adminID, tenantID int64) ([]DepartmentGrant, error)
	ListGroupGrants(ctx context.Context, adminID, tenantID int64) ([]GroupGrant, error)
	ReplaceDepartmentPermissions(ctx context.Context, adminID, tenantID int64, departmentIDs []int64, flags PermissionFlags, modifiedBy int64) error
	ReplaceGroupPermissions(ctx context.Context, adminID, tenantID int64, groupIDs []int64, flags PermissionFlags, modifiedBy int64) error
	DeleteDepartmentGrant(ctx context.Context, adminID, departmentID, tenantID int64) (bool, error)
	DeleteGroupGrant(ctx context.Context, adminID, groupID, tenantID int64) (bool, error)
	CountDepartments(ctx context.Context, tenantID int64) (int64, error)
}

type PermissionRepositoryImpl struct {
	db *database.SQLDB
}

func NewPermissionRepository(db *database.SQLDB) PermissionRepository {
	return &PermissionRepositoryImpl{db: db}
}

func (r *PermissionRepositoryImpl) FindDirect(ctx context.Context, adminID, departmentID, tenantID int64) (*PermissionFlags, error) {
	query := r.db.Rebind(`
		SELECT can_read, can_write, can_delete
		FROM admin_department_permissions
		WHERE admin_user_id = ? AND department_id = ? AND tenant_id = ?
	`)

	var flags PermissionFlags
	err := r.db.DB.QueryRowContext(ctx, query, adminID, departmentID, tenantID).
		Scan(&flags.CanRead, &flags.CanWrite, &flags.CanDelete)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flags, nil
}

// FindGroupFlagsForDepartment returns the flags of every group grant
// whose group currently contains the department. Membership is resolved
// live through the join; nothing is snapshotted.
func (r *PermissionRepositoryImpl) FindGroupFlagsForDepartment(ctx context.Context, adminID, departmentID, tenantID int64) ([]PermissionFlags, error) {
	query := r.db.Rebind(`
		SELECT agp.can_read, agp.can_write, agp.can_delete
		FROM admin_group_permissions agp
		JOIN department_group_members dgm ON dgm.group_id = agp.group_id
		WHERE agp.admin_user_id = ? AND dgm.department_id = ? AND agp.tenant_id = ?
	`)

	rows, err := r.db.DB.QueryContext(ctx, query, adminID, departmentID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PermissionFlags
	for rows.Next() {
		var flags PermissionFlags
		if err := rows.Scan(&flags.CanRead, &flags.CanWrite, &flags.CanDelete); err != nil {
			return nil, err
		}
		result = append(result, flags)
	}
	return result, rows.Err()
}

func (r *PermissionRepositoryImpl) ListDepartmentGrants(ctx context.Context, adminID, tenantID int64) ([]DepartmentGrant, error) {
	query := r.db.Rebind(`
		SELECT adp.department_id, d.name, adp.can_read, adp.can_write, adp.can_delete, adp.created_at
		FROM admin_department_permissions adp
		JOIN departments d ON d.id = adp.department_id
		WHERE adp.admin_user_id = ? AND adp.tenant_id = ?
		ORDER BY d.name ASC
	`)

	rows, err := r.db.DB.QueryContext(ctx, query, adminID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []DepartmentGrant{}
	for rows.Next() {
		var g DepartmentGrant
		if err := rows.Scan(&g.DepartmentID, &g.DepartmentName, &g.Permissions.CanRead, &g.Permissions.CanWrite, &g.Permissions.CanDelete, &g.AssignedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *PermissionRepositoryImpl) ListGroupGrants(ctx context.Context, adminID, tenantID int64) ([]GroupGrant, error) {
	query := r.db.Rebind(`
		SELECT agp.group_id, g.name,
		       (SELECT COUNT(*) FROM department_group_members m WHERE m.group_id = agp.group_id),
		       agp.can_read, agp.can_write, agp.can_delete, agp.created_at
		FROM admin_group_permissions agp
		JOIN department_groups g ON g.id = agp.group_id
		WHERE agp.admin_user_id = ? AND agp.tenant_id = ?
		ORDER BY g.name ASC
	`)

	rows, err := r.db.DB.QueryContext(ctx, query, adminID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []GroupGrant{}
	for rows.Next() {
		var g GroupGrant
		if err := rows.Scan(&g.GroupID, &g.GroupName, &g.DepartmentCount, &g.Permissions.CanRead, &g.Permissions.CanWrite, &g.Permissions.CanDelete, &g.AssignedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ReplaceDepartmentPermissions clears the admin's direct grants and
// re-inserts one row per department id, all inside one transaction so a
// concurrent CheckAccess never observes the empty window between the
// delete and the insert. The audit entry records the count and the
// flags, not the id list.
func (r *PermissionRepositoryImpl) ReplaceDepartmentPermissions(ctx context.Context, adminID, tenantID int64, departmentIDs []int64, flags PermissionFlags, modifiedBy int64) error {
	return r.replacePermissions(ctx, adminID, tenantID, departmentIDs, flags, modifiedBy,
		"admin_department_permissions", "department_id", "department")
}

func (r *PermissionRepositoryImpl) ReplaceGroupPermissions(ctx context.Context, adminID, tenantID int64, groupIDs []int64, flags PermissionFlags, modifiedBy int64) error {
	return r.replacePermissions(ctx, adminID, tenantID, groupIDs, flags, modifiedBy,
		"admin_group_permissions", "group_id", "group")
}

func (r *PermissionRepositoryImpl) replacePermissions(ctx context.Context, adminID, tenantID int64, targetIDs []int64, flags PermissionFlags, modifiedBy int64, table, idColumn, scope string) error {
	now := time.Now()

	details, err := json.Marshal(map[string]interface{}{
		"scope":     scope,
		"count":     len(targetIDs),
		"canRead":   flags.CanRead,
		"canWrite":  flags.CanWrite,
		"canDelete": flags.CanDelete,
	})
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		deleteQuery := r.db.Rebind(`DELETE FROM ` + table + ` WHERE admin_user_id = ? AND tenant_id = ?`)
		if _, err := tx.ExecContext(ctx, deleteQuery, adminID, tenantID); err != nil {
			return err
		}

		if len(targetIDs) > 0 {
			values := strings.TrimSuffix(strings.Repeat("(?, ?, ?, ?, ?, ?, ?, ?),", len(targetIDs)), ",")
			insertQuery := r.db.Rebind(`
				INSERT INTO ` + table + ` (admin_user_id, ` + idColumn + `, tenant_id, can_read, can_write, can_delete, modified_by, created_at)
				VALUES ` + values)

			args := make([]interface{}, 0, len(targetIDs)*8)
			for _, id := range targetIDs {
				args = append(args, adminID, id, tenantID, flags.CanRead, flags.CanWrite, flags.CanDelete, modifiedBy, now)
			}
			if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
				return err
			}
		}

		auditQuery := r.db.Rebind(`
			INSERT INTO audit_logs (tenant_id, action, entity, entity_id, actor_id, details, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		_, err := tx.ExecContext(ctx, auditQuery,
			tenantID, common_models.AuditActionPermissions, "admin_permissions", adminID, modifiedBy, string(details), now)
		return err
	})
}

func (r *PermissionRepositoryImpl) DeleteDepartmentGrant(ctx context.Context, adminID, departmentID, tenantID int64) (bool, error) {
	query := r.db.Rebind(`
		DELETE FROM admin_department_permissions
		WHERE admin_user_id = ? AND department_id = ? AND tenant_id = ?
	`)
	res, err := r.db.DB.ExecContext(ctx, query, adminID, departmentID, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PermissionRepositoryImpl) DeleteGroupGrant(ctx context.Context, adminID, groupID, tenantID int64) (bool, error) {
	query := r.db.Rebind(`
		DELETE FROM admin_group_permissions
		WHERE admin_user_id = ? AND group_id = ? AND tenant_id = ?
	`)
	res, err := r.db.DB.ExecContext(ctx, query, adminID, groupID, tenantID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PermissionRepositoryImpl) CountDepartments(ctx context.Context, tenantID int64) (int64, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM departments WHERE tenant_id = ? AND is_active = ?`)
	var count int64
	err := r.db.DB.QueryRowContext(ctx, query, tenantID, true).Scan(&count)
	return count, err
}
