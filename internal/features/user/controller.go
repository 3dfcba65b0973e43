package user

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserService UserService
	Logger      *zap.Logger
}

func NewUserController(userService UserService, logger *zap.Logger) *UserController {
	return &UserController{
		UserService: userService,
		Logger:      logger,
	}
}

// CreateUser godoc
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body CreateUserRequest true "User payload"
// @Success      201  {object} User
// @Router       /api/v2/users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	user, err := ctrl.UserService.CreateUser(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create user failed", zap.Error(err))
		return common_api.Error(c, err)
	}

	return common_api.Created(c, user)
}

// GetUser godoc
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object} User
// @Router       /api/v2/users/{id} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid user id")
	}

	user, err := ctrl.UserService.GetUser(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, user)
}

// ListUsers godoc
// @Summary      List users in the tenant
// @Tags         users
// @Produce      json
// @Param        role query string false "Role filter"
// @Param        departmentId query int false "Department filter"
// @Success      200  {array} User
// @Router       /api/v2/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	filter := ListFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   int64(c.QueryInt("page", 1)),
		Limit:  int64(c.QueryInt("limit", 50)),
	}
	if deptStr := c.Query("departmentId"); deptStr != "" {
		deptID, err := strconv.ParseInt(deptStr, 10, 64)
		if err != nil {
			return common_api.ValidationError(c, "Invalid departmentId")
		}
		filter.DepartmentID = &deptID
	}

	users, err := ctrl.UserService.ListUsers(c.UserContext(), filter)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, users)
}

// UpdateUser godoc
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object} User
// @Router       /api/v2/users/{id} [put]
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid user id")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	user, err := ctrl.UserService.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}

	return common_api.Success(c, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid user id")
	}

	if err := ctrl.UserService.DeleteUser(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}

	return common_api.SuccessMessage(c, nil, "User deleted successfully")
}
