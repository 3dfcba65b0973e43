package kvp

import (
	"io"
	"strconv"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SuggestionController struct {
	SuggestionService SuggestionService
	Logger            *zap.Logger
}

func NewSuggestionController(suggestionService SuggestionService, logger *zap.Logger) *SuggestionController {
	return &SuggestionController{
		SuggestionService: suggestionService,
		Logger:            logger,
	}
}

func listQueryFrom(c *fiber.Ctx) ListQuery {
	return ListQuery{
		Status:          c.Query("status"),
		Filter:          c.Query("filter"),
		IncludeArchived: c.QueryBool("includeArchived"),
		Page:            int64(c.QueryInt("page", 1)),
		Limit:           int64(c.QueryInt("limit", 50)),
	}
}

// CreateSuggestion godoc
// @Summary      Submit a suggestion
// @Tags         kvp
// @Accept       json
// @Produce      json
// @Param        suggestion body CreateSuggestionRequest true "Suggestion payload"
// @Success      201  {object} Suggestion
// @Router       /api/v2/kvp [post]
func (ctrl *SuggestionController) CreateSuggestion(c *fiber.Ctx) error {
	var req CreateSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	suggestion, err := ctrl.SuggestionService.CreateSuggestion(c.UserContext(), req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Created(c, suggestion)
}

// ListSuggestions godoc
// @Summary      List suggestions visible to the caller
// @Tags         kvp
// @Produce      json
// @Param        status query string false "Exact status filter"
// @Param        filter query string false "Scope filter: mine, department, company, archived"
// @Param        includeArchived query bool false "Include archived suggestions"
// @Success      200  {array} Suggestion
// @Router       /api/v2/kvp [get]
func (ctrl *SuggestionController) ListSuggestions(c *fiber.Ctx) error {
	suggestions, err := ctrl.SuggestionService.ListSuggestions(c.UserContext(), listQueryFrom(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, suggestions)
}

// GetSuggestion godoc
// @Summary      Get a suggestion by id
// @Tags         kvp
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Success      200  {object} Suggestion
// @Router       /api/v2/kvp/{id} [get]
func (ctrl *SuggestionController) GetSuggestion(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	suggestion, err := ctrl.SuggestionService.GetSuggestion(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, suggestion)
}

// UpdateSuggestion godoc
// @Summary      Edit a suggestion
// @Tags         kvp
// @Accept       json
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Success      200  {object} Suggestion
// @Router       /api/v2/kvp/{id} [put]
func (ctrl *SuggestionController) UpdateSuggestion(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	var req UpdateSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	suggestion, err := ctrl.SuggestionService.UpdateSuggestion(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, suggestion)
}

// ChangeStatus godoc
// @Summary      Change status or assignment
// @Tags         kvp
// @Accept       json
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Param        change body StatusChangeRequest true "New status"
// @Success      200  {object} Suggestion
// @Router       /api/v2/kvp/{id}/status [put]
func (ctrl *SuggestionController) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	var req StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	suggestion, err := ctrl.SuggestionService.ChangeStatus(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, suggestion)
}

// ArchiveSuggestion godoc
// @Summary      Archive a suggestion (soft delete)
// @Tags         kvp
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/kvp/{id} [delete]
func (ctrl *SuggestionController) ArchiveSuggestion(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	if err := ctrl.SuggestionService.ArchiveSuggestion(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Suggestion archived")
}

// UploadAttachment godoc
// @Summary      Attach a file to a suggestion
// @Tags         kvp
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Param        file formData file true "File"
// @Success      201  {object} Attachment
// @Router       /api/v2/kvp/{id}/attachments [post]
func (ctrl *SuggestionController) UploadAttachment(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common_api.ValidationError(c, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common_api.Error(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return common_api.Error(c, err)
	}

	attachment, err := ctrl.SuggestionService.SaveAttachment(c.UserContext(), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		ctrl.Logger.Warn("attachment upload failed", zap.Int64("suggestionId", id), zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, attachment)
}

// ListAttachments godoc
// @Summary      List a suggestion's attachments
// @Tags         kvp
// @Produce      json
// @Param        id path int true "Suggestion ID"
// @Success      200  {array} Attachment
// @Router       /api/v2/kvp/{id}/attachments [get]
func (ctrl *SuggestionController) ListAttachments(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid suggestion id")
	}

	attachments, err := ctrl.SuggestionService.ListAttachments(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, attachments)
}

// DownloadAttachment godoc
// @Summary      Download an attachment
// @Tags         kvp
// @Produce      octet-stream
// @Param        attachmentId path int true "Attachment ID"
// @Success      200
// @Router       /api/v2/kvp/attachments/{attachmentId} [get]
func (ctrl *SuggestionController) DownloadAttachment(c *fiber.Ctx) error {
	attachmentID, err := strconv.ParseInt(c.Params("attachmentId"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid attachment id")
	}

	attachment, path, err := ctrl.SuggestionService.OpenAttachment(c.UserContext(), attachmentID)
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Download(path, attachment.FileName)
}

// Export godoc
// @Summary      Export visible suggestions as XLSX
// @Tags         kvp
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/v2/kvp/export [get]
func (ctrl *SuggestionController) Export(c *fiber.Ctx) error {
	data, err := ctrl.SuggestionService.ExportXLSX(c.UserContext(), listQueryFrom(c))
	if err != nil {
		return common_api.Error(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kvp-suggestions.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
