package handlers

import (
	"context"
	"errors"
	"log"

	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is installed as the fiber.Config ErrorHandler. It maps domain
// errors returned by handlers to a status code and a {"message": ...} body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}

func errorResponse(err error) (int, string) {
	var (
		validation   *models.ValidationError
		duplicate    *models.DuplicateNameError
		notFound     *models.NotFoundError
		insufficient *models.InsufficientStockError
		unavailable  *models.StoreUnavailableError
		fiberErr     *fiber.Error
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, validation.Error()
	case errors.As(err, &duplicate):
		return fiber.StatusConflict, duplicate.Error()
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Error()
	case errors.As(err, &insufficient):
		return fiber.StatusBadRequest, insufficient.Error()
	case errors.Is(err, services.ErrAccountExists):
		return fiber.StatusConflict, services.ErrAccountExists.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.As(err, &unavailable):
		return fiber.StatusInternalServerError, unavailable.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "request timed out"
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// parseBody decodes the JSON request body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return nil
}
