package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// mapError returns the status and code for err. Unknown errors map to 500.
func mapError(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, common.ErrInvalidEmailDomain):
		return http.StatusUnprocessableEntity, "invalid_email_domain"
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, common.ErrParse):
		return http.StatusBadRequest, "parse_error"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication_error"
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &fe):
		switch fe.Code {
		case http.StatusNotFound:
			return fe.Code, "not_found"
		case http.StatusRequestEntityTooLarge:
			return fe.Code, "payload_too_large"
		case http.StatusMethodNotAllowed:
			return fe.Code, "method_not_allowed"
		}
		if fe.Code >= 500 {
			return fe.Code, "internal_error"
		}
		return fe.Code, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *HTTPServer) writeError(c fiber.Ctx, err error) error {
	status, code := mapError(err)
	detail := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Context(), "request failed", "path", c.Path(), "error", err.Error())
		detail = "internal server error"
	}
	return c.Status(status).JSON(ErrorResponse{Detail: detail, Code: code})
}

// handleError is the fiber ErrorHandler: it catches routing errors, body
// limit rejections and recovered panics.
func (s *HTTPServer) handleError(c fiber.Ctx, err error) error {
	return s.writeError(c, err)
}

var errBadBody = fmt.Errorf("%w: invalid request body", common.ErrParse)
