package controller

import (
	"errors"

	"darwinian-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps service errors to HTTP statuses for serverutils.ErrorHandler.
func StatusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrNoAnswer), errors.Is(err, service.ErrNoCodeToVerify):
		return fiber.StatusConflict, true
	}
	return 0, false
}
