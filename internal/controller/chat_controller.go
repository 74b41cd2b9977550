package controller

import (
	"darwinian-be/internal/dto"
	"darwinian-be/internal/pkg/serverutils"
	"darwinian-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	auth    fiber.Handler
}

func NewChatController(service service.IChatService, auth fiber.Handler) IChatController {
	return &chatController{service: service, auth: auth}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1/sessions")
	if c.auth != nil {
		h.Use(c.auth)
	}
	h.Post("", c.CreateSession)
	h.Get(":id", c.GetSession)
	h.Put(":id/settings", c.UpdateSettings)
	h.Post(":id/messages", c.SendMessage)
	h.Post(":id/approve", c.Approve)
	h.Post(":id/reject", c.Reject)
	h.Post(":id/verify", c.Verify)
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) UpdateSettings(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.SettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateSettings(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Settings updated", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn completed", res))
}

func (c *chatController) Approve(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Approve(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logic reinforced", res))
}

func (c *chatController) Reject(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.RejectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Reject(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	msg := "Correction learned"
	if !res.Saved {
		msg = "Repair failed, original kept"
	}
	return ctx.JSON(serverutils.SuccessResponse(msg, res))
}

func (c *chatController) Verify(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Verify(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit report", res))
}
