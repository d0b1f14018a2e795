// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"

	"ai-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbled out of controllers into the
// shared envelope. ApiError keeps its "kind:surface" code, quota errors get a
// 429 with the window details, validation errors get a 400 with field names.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *dto.ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(fiber.Map{
				"success": false,
				"code":    apiErr.Code(),
				"message": apiErr.Message,
			})
		}

		var limitErr *dto.LimitExceededError
		if errors.As(err, &limitErr) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"code":        "rate_limit:chat",
				"message":     err.Error(),
				"limit":       limitErr.Limit,
				"used":        limitErr.Used,
				"reset_after": limitErr.ResetAfter,
			})
		}

		var valErr *ValidationError
		if errors.As(err, &valErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ApiErrorResponse{
				Success: false,
				Code:    fiber.StatusBadRequest,
				Message: "Invalid request",
				Cause:   valErr.Error(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "An error occurred while processing your request. Please try again later."),
		)
	}
}
