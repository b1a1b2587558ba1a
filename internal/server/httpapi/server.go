// Package httpapi exposes the marketplace services over HTTP using fiber.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/logging"
	"github.com/dmitrijs2005/campusmarket/internal/server/services"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	logger   logging.Logger
	accounts *services.AccountService
	uploads  *services.UploadService
	catalog  *services.CatalogService
	app      *fiber.App
}

// NewHTTPServer builds the fiber app with every route registered. Request
// bodies above bodyLimit bytes are rejected with 413.
func NewHTTPServer(address string, l logging.Logger, as *services.AccountService, us *services.UploadService, cs *services.CatalogService, bodyLimit int) *HTTPServer {
	s := &HTTPServer{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
		uploads:  us,
		catalog:  cs,
	}
	s.app = fiber.New(fiber.Config{
		AppName:      "campusmarket",
		BodyLimit:    bodyLimit,
		ErrorHandler: s.handleError,
	})
	s.routes()
	return s
}

// App returns the underlying fiber app, mostly for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

func (s *HTTPServer) routes() {
	s.app.Use(requestid.New())
	s.app.Use(s.requestLogger)
	s.app.Use(recoverer.New())

	s.app.Get("/healthz", s.health)

	auth := s.app.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Post("/refresh", s.refresh)
	auth.Post("/logout", s.logout)

	users := s.app.Group("/users")
	users.Get("/me", s.requireAuth, s.me)
	users.Patch("/me", s.requireAuth, s.updateMe)
	users.Delete("/me", s.requireAuth, s.deleteMe)

	uploads := s.app.Group("/uploads")
	uploads.Post("/presign", s.presign)
	uploads.Put("/blob", s.transfer)
	uploads.Post("/confirm", s.confirm)

	s.app.Get("/media/*", s.media)

	s.app.Get("/listings", s.listListings)
	s.app.Post("/listings", s.createListing)
	s.app.Get("/categories", s.listCategories)
	s.app.Get("/campuses", s.listCampuses)

	s.app.Use(func(c fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
