package controller

import (
	"darwinian-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	memoryBackend string
}

func NewHealthController(memoryBackend string) *HealthController {
	return &HealthController{memoryBackend: memoryBackend}
}

func (c *HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *HealthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"memory_backend": c.memoryBackend}))
}
