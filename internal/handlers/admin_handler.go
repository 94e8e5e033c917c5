package handlers

import (
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	auth        *services.AdminAuthService
	transitions *services.TransitionService
	queries     *services.ReportQueryService
}

func NewAdminHandler(auth *services.AdminAuthService, transitions *services.TransitionService, queries *services.ReportQueryService) *AdminHandler {
	return &AdminHandler{auth: auth, transitions: transitions, queries: queries}
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.auth.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	var q dto.ListReportsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid query parameters",
		})
	}

	resp, err := h.queries.List(c.UserContext(), &q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.transitions.Get(c.UserContext(), middleware.GetAdmin(c), tokenParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.transitions.Transition(c.UserContext(), middleware.GetAdmin(c), tokenParam(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
