package httpapi

import (
	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/auth"
	"github.com/dmitrijs2005/campusmarket/internal/server/services"
	"github.com/gofiber/fiber/v3"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	CampusSlug  string `json:"campus_slug"`
	ClassYear   *int   `json:"class_year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type profileRequest struct {
	DisplayName *string `json:"display_name"`
	CampusSlug  *string `json:"campus_slug"`
	ClassYear   *int    `json:"class_year"`
	Bio         *string `json:"bio"`
}

type messageResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

func (s *HTTPServer) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *HTTPServer) register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	id, err := s.accounts.Register(c.Context(), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		CampusSlug:  req.CampusSlug,
		ClassYear:   req.ClassYear,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	s.logger.Info(c.Context(), "Registered", "user_id", id)
	return c.JSON(messageResponse{Message: "registered", UserID: id})
}

func (s *HTTPServer) login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	pair, err := s.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(pair)
}

// refresh takes the refresh token from the JSON body or, failing that, from
// the bearer header.
func (s *HTTPServer) refresh(c fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return s.writeError(c, errBadBody)
		}
	}
	token := req.RefreshToken
	if token == "" {
		bearer, err := auth.ParseBearer(c.Get(common.AuthorizationHeaderName))
		if err != nil {
			return s.writeError(c, common.ErrInvalidToken)
		}
		token = bearer
	}
	pair, err := s.accounts.Refresh(c.Context(), token)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(pair)
}

// logout has nothing to revoke: tokens are stateless.
func (s *HTTPServer) logout(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) me(c fiber.Ctx) error {
	v, err := s.accounts.Me(c.Context(), *s.caller(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(v)
}

func (s *HTTPServer) updateMe(c fiber.Ctx) error {
	var req profileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	v, err := s.accounts.UpdateMe(c.Context(), *s.caller(c), services.ProfilePatch{
		DisplayName: req.DisplayName,
		CampusSlug:  req.CampusSlug,
		ClassYear:   req.ClassYear,
		Bio:         req.Bio,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(v)
}

func (s *HTTPServer) deleteMe(c fiber.Ctx) error {
	if err := s.accounts.DeleteAccount(c.Context(), s.caller(c).Email); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(messageResponse{Message: "account deleted"})
}
