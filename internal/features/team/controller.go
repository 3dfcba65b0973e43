package team

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TeamController struct {
	TeamService TeamService
	Logger      *zap.Logger
}

func NewTeamController(teamService TeamService, logger *zap.Logger) *TeamController {
	return &TeamController{
		TeamService: teamService,
		Logger:      logger,
	}
}

// CreateTeam godoc
// @Summary      Create a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        team body CreateTeamRequest true "Team payload"
// @Success      201  {object} Team
// @Router       /api/v2/teams [post]
func (ctrl *TeamController) CreateTeam(c *fiber.Ctx) error {
	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	team, err := ctrl.TeamService.CreateTeam(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create team failed", zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, team)
}

// ListTeams godoc
// @Summary      List teams
// @Tags         teams
// @Produce      json
// @Param        departmentId query int false "Department filter"
// @Success      200  {array} Team
// @Router       /api/v2/teams [get]
func (ctrl *TeamController) ListTeams(c *fiber.Ctx) error {
	var departmentID *int64
	if deptStr := c.Query("departmentId"); deptStr != "" {
		id, err := strconv.ParseInt(deptStr, 10, 64)
		if err != nil {
			return common_api.ValidationError(c, "Invalid departmentId")
		}
		departmentID = &id
	}

	teams, err := ctrl.TeamService.ListTeams(c.UserContext(), departmentID)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, teams)
}

// GetTeam godoc
// @Summary      Get a team by id
// @Tags         teams
// @Produce      json
// @Param        id path int true "Team ID"
// @Success      200  {object} Team
// @Router       /api/v2/teams/{id} [get]
func (ctrl *TeamController) GetTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}

	team, err := ctrl.TeamService.GetTeam(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, team)
}

// UpdateTeam godoc
// @Summary      Update a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id path int true "Team ID"
// @Success      200  {object} Team
// @Router       /api/v2/teams/{id} [put]
func (ctrl *TeamController) UpdateTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	team, err := ctrl.TeamService.UpdateTeam(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, team)
}

// DeleteTeam godoc
// @Summary      Delete a team
// @Tags         teams
// @Produce      json
// @Param        id path int true "Team ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/teams/{id} [delete]
func (ctrl *TeamController) DeleteTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}

	if err := ctrl.TeamService.DeleteTeam(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Team deleted successfully")
}

// ListMembers godoc
// @Summary      List team members
// @Tags         teams
// @Produce      json
// @Param        id path int true "Team ID"
// @Success      200  {array} Member
// @Router       /api/v2/teams/{id}/members [get]
func (ctrl *TeamController) ListMembers(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}

	members, err := ctrl.TeamService.ListMembers(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, members)
}

// AddMember godoc
// @Summary      Add a user to a team
// @Tags         teams
// @Produce      json
// @Param        id path int true "Team ID"
// @Param        userId path int true "User ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/teams/{id}/members/{userId} [post]
func (ctrl *TeamController) AddMember(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid user id")
	}

	if err := ctrl.TeamService.AddMember(c.UserContext(), id, userID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Member added")
}

// RemoveMember godoc
// @Summary      Remove a user from a team
// @Tags         teams
// @Produce      json
// @Param        id path int true "Team ID"
// @Param        userId path int true "User ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/teams/{id}/members/{userId} [delete]
func (ctrl *TeamController) RemoveMember(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid team id")
	}
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid user id")
	}

	if err := ctrl.TeamService.RemoveMember(c.UserContext(), id, userID); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Member removed")
}
