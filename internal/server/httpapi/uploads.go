package httpapi

import (
	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/services"
	"github.com/gofiber/fiber/v3"
)

type presignRequest struct {
	Purpose     string `json:"purpose"`
	ListingID   string `json:"listing_id"`
	ContentType string `json:"content_type"`
}

type confirmRequest struct {
	UploadID string `json:"upload_id"`
	Position *int   `json:"position"`
}

type avatarConfirmResponse struct {
	AvatarURL *string `json:"avatar_url"`
}

type photoConfirmResponse struct {
	PhotoID  *string `json:"photo_id"`
	URL      *string `json:"url"`
	Position int     `json:"position"`
}

func (s *HTTPServer) presign(c fiber.Ctx) error {
	var req presignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	in := services.ReserveInput{Purpose: req.Purpose, ListingID: req.ListingID, ContentType: req.ContentType}
	if id := s.caller(c); id != nil {
		in.UserID = id.UserID
	}
	r, err := s.uploads.Reserve(c.Context(), in)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(r)
}

// transfer receives the raw upload bytes. fiber has already read the whole
// body, bounded by the configured limit.
func (s *HTTPServer) transfer(c fiber.Ctx) error {
	err := s.uploads.Transfer(c.Context(), c.Query("id"), c.Get(fiber.HeaderContentType), c.Body())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *HTTPServer) confirm(c fiber.Ctx) error {
	var req confirmRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	res, err := s.uploads.Confirm(c.Context(), services.ConfirmInput{
		UploadID: req.UploadID,
		Position: req.Position,
		Caller:   s.caller(c),
	})
	if err != nil {
		return s.writeError(c, err)
	}
	if res.Purpose == common.PurposeAvatar {
		return c.JSON(avatarConfirmResponse{AvatarURL: res.URL})
	}
	out := photoConfirmResponse{URL: res.URL, Position: res.Position}
	if res.PhotoID != "" {
		out.PhotoID = &res.PhotoID
	}
	return c.JSON(out)
}

// media serves objects stored by confirmed uploads.
func (s *HTTPServer) media(c fiber.Ctx) error {
	obj, err := s.uploads.OpenMedia(c.Context(), c.Params("*"))
	if err != nil {
		return s.writeError(c, err)
	}
	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	return c.Send(obj.Data)
}
