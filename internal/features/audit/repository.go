package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	common_models "assixx/internal/common/models"
	"assixx/internal/database"
)

type AuditRepository interface {
	Create(ctx context.Context, log common_models.AuditLog) error
	List(ctx context.Context, tenantID int64, filters ListFilters, limit, offset int64) ([]common_models.AuditLog, error)
}

type ListFilters struct {
	Action   string
	Entity   string
	EntityID *int64
	ActorID  *int64
}

type AuditRepositoryImpl struct {
	db *database.SQLDB
}

func NewAuditRepository(db *database.SQLDB) AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log common_models.AuditLog) error {
	var details interface{}
	if log.Details != nil {
		raw, err := json.Marshal(log.Details)
		if err != nil {
			return err
		}
		details = string(raw)
	}

	query := r.db.Rebind(`
		INSERT INTO audit_logs (tenant_id, action, entity, entity_id, actor_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.DB.ExecContext(ctx, query,
		log.TenantID, log.Action, log.Entity, log.EntityID, log.ActorID, details, log.CreatedAt,
	)
	return err
}

func (r *AuditRepositoryImpl) List(ctx context.Context, tenantID int64, filters ListFilters, limit, offset int64) ([]common_models.AuditLog, error) {
	where := []string{"tenant_id = ?"}
	args := []interface{}{tenantID}

	if filters.Action != "" {
		where = append(where, "action = ?")
		args = append(args, filters.Action)
	}
	if filters.Entity != "" {
		where = append(where, "entity = ?")
		args = append(args, filters.Entity)
	}
	if filters.EntityID != nil {
		where = append(where, "entity_id = ?")
		args = append(args, *filters.EntityID)
	}
	if filters.ActorID != nil {
		where = append(where, "actor_id = ?")
		args = append(args, *filters.ActorID)
	}
	args = append(args, limit, offset)

	query := r.db.Rebind(`
		SELECT id, tenant_id, action, entity, entity_id, actor_id, details, created_at
		FROM audit_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []common_models.AuditLog
	for rows.Next() {
		var log common_models.AuditLog
		var details sql.NullString
		if err := rows.Scan(&log.ID, &log.TenantID, &log.Action, &log.Entity, &log.EntityID, &log.ActorID, &details, &log.CreatedAt); err != nil {
			return nil, err
		}
		if details.Valid && details.String != "" {
			_ = json.Unmarshal([]byte(details.String), &log.Details)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
