package audit

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	AuditService AuditService
}

func NewAuditController(auditService AuditService) *AuditController {
	return &AuditController{
		AuditService: auditService,
	}
}

// ListLogs godoc
// @Summary      List audit trail entries
// @Description  Root-only filtered view over the immutable audit trail
// @Tags         audit
// @Produce      json
// @Param        action query string false "Action filter"
// @Param        entity query string false "Entity filter"
// @Success      200  {array} models.AuditLog
// @Router       /api/v2/audit [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	filters := ListFilters{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}
	if v := c.Query("entityId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return common_api.ValidationError(c, "Invalid entityId")
		}
		filters.EntityID = &id
	}
	if v := c.Query("actorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return common_api.ValidationError(c, "Invalid actorId")
		}
		filters.ActorID = &id
	}

	logs, err := ctrl.AuditService.ListLogs(
		c.UserContext(),
		filters,
		int64(c.QueryInt("page", 1)),
		int64(c.QueryInt("limit", 20)),
	)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, logs)
}
