package httpapi

import (
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

type ctxKey string

const identityKey ctxKey = "identity"

// requireAuth rejects requests without a valid access token and stores the
// caller's identity for the handler.
func (s *HTTPServer) requireAuth(c fiber.Ctx) error {
	id, err := s.accounts.Authenticate(c.Get(common.AuthorizationHeaderName))
	if err != nil {
		return s.writeError(c, err)
	}
	c.Locals(identityKey, id)
	return c.Next()
}

// caller returns the identity stored by requireAuth or, on public routes,
// the one carried by a valid bearer header. It is nil for anonymous calls;
// an invalid header on a public route counts as anonymous.
func (s *HTTPServer) caller(c fiber.Ctx) *models.Identity {
	if id, ok := c.Locals(identityKey).(models.Identity); ok {
		return &id
	}
	header := c.Get(common.AuthorizationHeaderName)
	if header == "" {
		return nil
	}
	id, err := s.accounts.Authenticate(header)
	if err != nil {
		return nil
	}
	return &id
}

// requestLogger logs one line per request. Errors returned down the chain
// are rendered here so the logged status is the one the client sees.
func (s *HTTPServer) requestLogger(c fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if werr := s.handleError(c, err); werr != nil {
			return werr
		}
	}
	s.logger.Info(c.Context(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
		"request_id", requestid.FromContext(c),
	)
	return nil
}
