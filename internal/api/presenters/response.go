package presenters

import (
	"Markit-Pantry/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Alert   []domain.FieldError `json:"alert,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse renders err; field errors are listed one by one in alert.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		var fieldErrs *domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			res.Error = fieldErrs.Kind.Error()
			res.Alert = fieldErrs.Errors
		}
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps the domain error taxonomy to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAuthFailure):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPantryItemNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
