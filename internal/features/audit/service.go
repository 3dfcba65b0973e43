package audit

import (
	"context"
	"time"

	common_models "assixx/internal/common/models"
	"assixx/pkg/utils"
)

// UserFinder resolves actor ids to display names without importing the
// user feature directly.
type UserFinder interface {
	FindNamesByIDs(ctx context.Context, tenantID int64, ids []int64) (map[int64]string, error)
}

type AuditService interface {
	Log(ctx context.Context, action common_models.AuditAction, entity string, entityID int64, details map[string]interface{}) error
	ListLogs(ctx context.Context, filters ListFilters, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	UserRepo UserFinder
}

func NewAuditService(repo AuditRepository, userRepo UserFinder) AuditService {
	return &AuditServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

func (s *AuditServiceImpl) Log(ctx context.Context, action common_models.AuditAction, entity string, entityID int64, details map[string]interface{}) error {
	var actorID, tenantID int64
	if claims, ok := utils.ClaimsFromContext(ctx); ok {
		actorID = claims.UserID
		tenantID = claims.TenantID
	}

	log := common_models.AuditLog{
		TenantID:  tenantID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		ActorID:   actorID,
		Details:   details,
		CreatedAt: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters ListFilters, page, limit int64) ([]common_models.AuditLog, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, common_models.NewUnauthorized("No authenticated principal")
	}
	if common_models.Role(claims.Role) != common_models.RoleRoot {
		return nil, common_models.NewForbidden("Root role required")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	logs, err := s.Repo.List(ctx, claims.TenantID, filters, limit, offset)
	if err != nil {
		return nil, err
	}

	// Collect actor ids
	actorIDs := make([]int64, 0)
	uniqueIDs := make(map[int64]bool)
	for _, log := range logs {
		if log.ActorID != 0 && !uniqueIDs[log.ActorID] {
			uniqueIDs[log.ActorID] = true
			actorIDs = append(actorIDs, log.ActorID)
		}
	}

	// Batch fetch actor names
	nameMap := map[int64]string{}
	if len(actorIDs) > 0 {
		if names, err := s.UserRepo.FindNamesByIDs(ctx, claims.TenantID, actorIDs); err == nil {
			nameMap = names
		}
	}

	for i, log := range logs {
		if log.ActorID == 0 {
			logs[i].ActorName = "System"
		} else if name, ok := nameMap[log.ActorID]; ok {
			logs[i].ActorName = name
		} else {
			logs[i].ActorName = "Unknown User"
		}
	}

	return logs, nil
}
