package handlers

import (
	"net/url"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the anonymous side: submission, tracking and the
// public dashboard data.
type ReportHandler struct {
	submission *services.SubmissionService
	tracking   *services.TrackingService
	queries    *services.ReportQueryService
}

func NewReportHandler(submission *services.SubmissionService, tracking *services.TrackingService, queries *services.ReportQueryService) *ReportHandler {
	return &ReportHandler{submission: submission, tracking: tracking, queries: queries}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	tok, err := h.submission.Submit(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitReportResponse{
		Token:   tok,
		Message: "Report submitted. Keep this token safe; it is the only way to track your report.",
	})
}

// Track accepts the token either as ?token= or as the last path segment.
func (h *ReportHandler) Track(c *fiber.Ctx) error {
	raw := tokenParam(c)
	if raw == "" {
		raw = c.Query("token")
	}

	view, err := h.tracking.Track(c.UserContext(), raw)
	c.Set(fiber.HeaderCacheControl, "no-store")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.queries.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *ReportHandler) Latest(c *fiber.Ctx) error {
	reports, err := h.queries.Latest(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// tokenParam returns the :token path segment URL-decoded, so hand-typed
// tokens with spaces reach normalization intact.
func tokenParam(c *fiber.Ctx) string {
	raw := c.Params("token")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
