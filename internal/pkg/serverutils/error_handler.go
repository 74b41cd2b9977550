package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// StatusMapper lets the domain layer choose the HTTP status for its errors
// without this package importing it.
type StatusMapper func(err error) (status int, ok bool)

// ErrorHandler writes every error as a BaseResponse. Fiber errors keep
// their status, mapped domain errors get theirs, everything else is a 500.
func ErrorHandler(mappers ...StatusMapper) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		} else {
			for _, m := range mappers {
				if status, ok := m(err); ok {
					code = status
					break
				}
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// ErrorHandlerMiddleware recovers panics into a 500 response.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
			}
		}()
		return ctx.Next()
	}
}
