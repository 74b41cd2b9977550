package controller

import (
	"darwinian-be/internal/pkg/serverutils"
	"darwinian-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMemoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type memoryController struct {
	service service.IChatService
	auth    fiber.Handler
}

func NewMemoryController(service service.IChatService, auth fiber.Handler) IMemoryController {
	return &memoryController{service: service, auth: auth}
}

func (c *memoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/memory/v1")
	if c.auth != nil {
		h.Use(c.auth)
	}
	h.Get("", c.List)
}

func (c *memoryController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListMemories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get memories", res))
}
