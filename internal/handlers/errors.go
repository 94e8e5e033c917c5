package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// notFoundMessage is shared by every lookup miss so responses never reveal
// whether a token was malformed or simply unknown.
const notFoundMessage = "Report not found"

// respondError maps service errors to client responses. Anything it does not
// recognise is handed to the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: verr.Fields,
		})
	case errors.Is(err, services.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: notFoundMessage,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorizedActor):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
	return err
}

// ErrorHandler is the Fiber error handler. Details are only exposed for 4xx;
// 5xx errors are logged and sent to Sentry.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		logging.From(c.UserContext()).Error("unhandled server error",
			"method", c.Method(),
			"path", c.Route().Path,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
