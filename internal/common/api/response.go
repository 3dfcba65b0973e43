package api

import (
	"errors"

	"assixx/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// Every endpoint answers with the same envelope:
// {success, data, message?} or {success:false, error:{code, message, details?}}.

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func SuccessMessage(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Error maps an AppError to its status code. Unknown errors never leak
// past a generic 500 message; the caller is expected to have logged them.
func Error(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(fiber.Map{
			"success": false,
			"error": errorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error": errorBody{
			Code:    models.CodeServerError,
			Message: "An unexpected error occurred",
		},
	})
}

// ValidationError is a shortcut for malformed request bodies/params.
func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, models.NewValidationError(message))
}
