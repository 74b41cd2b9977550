package controller

import (
	"darwinian-be/internal/dto"
	"darwinian-be/internal/pkg/serverutils"
	"darwinian-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRefineController interface {
	RegisterRoutes(r fiber.Router)
	Refine(ctx *fiber.Ctx) error
}

type refineController struct {
	service service.IRefineService
	auth    fiber.Handler
}

func NewRefineController(service service.IRefineService, auth fiber.Handler) IRefineController {
	return &refineController{service: service, auth: auth}
}

func (c *refineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/refine/v1")
	if c.auth != nil {
		h.Use(c.auth)
	}
	h.Post("", c.Refine)
}

func (c *refineController) Refine(ctx *fiber.Ctx) error {
	var req dto.RefineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Refine(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refinement finished", res))
}
