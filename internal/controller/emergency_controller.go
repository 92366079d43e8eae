package controller

import (
	"errors"

	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/serverutils"
	"github.com/TheTechnextInc/mindful-chatbot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEmergencyController interface {
	RegisterRoutes(r fiber.Router)
	SendManualAlert(ctx *fiber.Ctx) error
	SendProgressEmail(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type emergencyController struct {
	service service.IEmergencyService
}

func NewEmergencyController(service service.IEmergencyService) IEmergencyController {
	return &emergencyController{service: service}
}

func (c *emergencyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/emergency/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/alert", c.SendManualAlert)
	h.Post("/progress-email", c.SendProgressEmail)
	h.Get("/history", c.GetHistory)
}

func (c *emergencyController) SendManualAlert(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ManualAlertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	res, err := c.service.SendManualAlert(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoEmergencyContact) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "No emergency contact configured"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Alert dispatched", res))
}

func (c *emergencyController) SendProgressEmail(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ProgressEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SendProgressEmail(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoEmergencyContact) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "No emergency contact configured"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Progress email dispatched", res))
}

func (c *emergencyController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetNotificationHistory(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification history", res))
}
