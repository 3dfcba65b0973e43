package blackboard

import (
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EntryController struct {
	EntryService EntryService
	Logger       *zap.Logger
}

func NewEntryController(entryService EntryService, logger *zap.Logger) *EntryController {
	return &EntryController{
		EntryService: entryService,
		Logger:       logger,
	}
}

// CreateEntry godoc
// @Summary      Post an announcement
// @Tags         blackboard
// @Accept       json
// @Produce      json
// @Param        entry body CreateEntryRequest true "Entry payload"
// @Success      201  {object} Entry
// @Router       /api/v2/blackboard [post]
func (ctrl *EntryController) CreateEntry(c *fiber.Ctx) error {
	var req CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	entry, err := ctrl.EntryService.CreateEntry(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create blackboard entry failed", zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, entry)
}

// ListEntries godoc
// @Summary      List announcements visible to the caller
// @Tags         blackboard
// @Produce      json
// @Param        includeArchived query bool false "Include archived entries (admins only)"
// @Success      200  {array} Entry
// @Router       /api/v2/blackboard [get]
func (ctrl *EntryController) ListEntries(c *fiber.Ctx) error {
	entries, err := ctrl.EntryService.ListEntries(c.UserContext(), c.QueryBool("includeArchived"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, entries)
}

// GetEntry godoc
// @Summary      Get an announcement by id
// @Tags         blackboard
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object} Entry
// @Router       /api/v2/blackboard/{id} [get]
func (ctrl *EntryController) GetEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	entry, err := ctrl.EntryService.GetEntry(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, entry)
}

// UpdateEntry godoc
// @Summary      Update an announcement
// @Tags         blackboard
// @Accept       json
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object} Entry
// @Router       /api/v2/blackboard/{id} [put]
func (ctrl *EntryController) UpdateEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	var req UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	entry, err := ctrl.EntryService.UpdateEntry(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, entry)
}

// ArchiveEntry godoc
// @Summary      Archive an announcement
// @Tags         blackboard
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/blackboard/{id} [delete]
func (ctrl *EntryController) ArchiveEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	if err := ctrl.EntryService.ArchiveEntry(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Entry archived")
}

// ConfirmEntry godoc
// @Summary      Confirm having read an announcement
// @Tags         blackboard
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/blackboard/{id}/confirm [post]
func (ctrl *EntryController) ConfirmEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	if err := ctrl.EntryService.ConfirmEntry(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Entry confirmed")
}

// ListConfirmations godoc
// @Summary      List who confirmed an announcement
// @Tags         blackboard
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {array} Confirmation
// @Router       /api/v2/blackboard/{id}/confirmations [get]
func (ctrl *EntryController) ListConfirmations(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid entry id")
	}

	confirmations, err := ctrl.EntryService.ListConfirmations(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, confirmations)
}
