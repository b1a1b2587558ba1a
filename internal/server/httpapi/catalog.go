package httpapi

import (
	"github.com/dmitrijs2005/campusmarket/internal/server/services"
	"github.com/gofiber/fiber/v3"
)

type createListingRequest struct {
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	PriceHint         *string `json:"price_hint"`
	CategoryID        string  `json:"category_id"`
	CategorySlug      string  `json:"category_slug"`
	LocationType      string  `json:"location_type"`
	LocationHint      *string `json:"location_hint"`
	Availability      *string `json:"availability"`
	ContactPreference string  `json:"contact_preference"`
}

func (s *HTTPServer) listListings(c fiber.Ctx) error {
	f := services.Filter{
		Type:         c.Query("type"),
		CategorySlug: c.Query("category_slug"),
		LocationType: c.Query("location_type"),
		Search:       c.Query("q"),
		Sort:         c.Query("sort"),
	}
	page, err := s.catalog.Query(c.Context(), f, fiber.Query[int](c, "page"), fiber.Query[int](c, "per_page"), s.caller(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(page)
}

func (s *HTTPServer) createListing(c fiber.Ctx) error {
	var req createListingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return s.writeError(c, errBadBody)
	}
	l, err := s.catalog.CreateListing(c.Context(), services.CreateListingInput{
		Type:              req.Type,
		Title:             req.Title,
		Description:       req.Description,
		PriceHint:         req.PriceHint,
		CategoryID:        req.CategoryID,
		CategorySlug:      req.CategorySlug,
		LocationType:      req.LocationType,
		LocationHint:      req.LocationHint,
		Availability:      req.Availability,
		ContactPreference: req.ContactPreference,
	}, s.caller(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (s *HTTPServer) listCategories(c fiber.Ctx) error {
	return c.JSON(s.catalog.Categories(c.Query("listing_type")))
}

func (s *HTTPServer) listCampuses(c fiber.Ctx) error {
	return c.JSON(s.catalog.Campuses())
}
