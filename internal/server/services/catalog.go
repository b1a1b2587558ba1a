package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/config"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusmarket/internal/server/seed"
	"github.com/dmitrijs2005/campusmarket/internal/timex"
	"github.com/google/uuid"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	// listingLifetime is how long a new listing stays up.
	listingLifetime = 30 * 24 * time.Hour
)

// Filter narrows a catalog query. Empty fields match everything. Sort is
// accepted but listings are always returned in insertion order.
type Filter struct {
	Type         string
	CategorySlug string
	LocationType string
	Search       string
	Sort         string
}

type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type Page struct {
	Items      []models.Listing `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

type CreateListingInput struct {
	Type              string
	Title             string
	Description       string
	PriceHint         *string
	CategoryID        string
	CategorySlug      string
	LocationType      string
	LocationHint      *string
	Availability      *string
	ContactPreference string
}

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	now         timex.Clock
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *CatalogService {
	return &CatalogService{db: db, repomanager: m, config: cfg, now: timex.UTCNow}
}

// EnsureSeeded loads the starting listings into an empty registry.
func (s *CatalogService) EnsureSeeded(ctx context.Context) error {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Listings(tx)
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, l := range seed.Listings() {
			if err := repo.Add(ctx, l); err != nil {
				return fmt.Errorf("error seeding listing %s: %w", l.ID, err)
			}
		}
		return nil
	})
}

func (f Filter) matches(l *models.Listing) bool {
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.CategorySlug != "" && l.Category.Slug != f.CategorySlug {
		return false
	}
	if f.LocationType != "" && l.LocationType != f.LocationType {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) &&
			!strings.Contains(strings.ToLower(l.Category.Name), q) {
			return false
		}
	}
	return true
}

// Paginate clamps page and perPage and cuts the page out of items.
func Paginate(items []models.Listing, page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	start := total
	if page <= totalPages {
		start = (page - 1) * perPage
	}
	end := min(start+perPage, total)

	return Page{
		Items: append([]models.Listing{}, items[start:end]...),
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}

// Query filters the catalog and returns one page. viewer may be nil.
func (s *CatalogService) Query(ctx context.Context, f Filter, page, perPage int, viewer *models.Identity) (*Page, error) {
	all, err := s.repomanager.Listings(dbx.Handle(s.db)).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing catalog: %w", err)
	}

	filtered := make([]models.Listing, 0, len(all))
	for i := range all {
		if f.matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}

	p := Paginate(filtered, page, perPage)
	for i := range p.Items {
		p.Items[i].IsOwn = viewer != nil && p.Items[i].Owner.ID == viewer.UserID
	}
	return &p, nil
}

func (s *CatalogService) resolveCategory(in CreateListingInput) (models.Category, bool) {
	for _, c := range seed.Categories() {
		if (in.CategoryID != "" && c.ID == in.CategoryID) || (in.CategoryID == "" && c.Slug == in.CategorySlug) {
			return c, true
		}
	}
	return models.Category{}, false
}

func (s *CatalogService) resolveOwner(ctx context.Context, caller *models.Identity) (models.Owner, error) {
	email := s.config.DemoAccountEmail
	if caller != nil {
		email = caller.Email
	}
	email = normalizeEmail(email)

	a, err := s.repomanager.Accounts(dbx.Handle(s.db)).GetByEmail(ctx, email)
	if err == nil {
		return models.Owner{ID: a.ID, DisplayName: a.DisplayName, CampusSlug: a.CampusSlug}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return models.Owner{}, err
	}
	for _, d := range seed.DemoAccounts() {
		if d.Account.Email == email {
			return models.Owner{ID: d.Account.ID, DisplayName: d.Account.DisplayName, CampusSlug: d.Account.CampusSlug}, nil
		}
	}
	if caller == nil {
		return models.Owner{}, fmt.Errorf("%w: demo account %s is not configured", common.ErrorInternal, email)
	}
	name, _, _ := strings.Cut(email, "@")
	return models.Owner{ID: caller.UserID, DisplayName: name}, nil
}

// CreateListing adds a new active listing owned by caller, or by the demo
// account when caller is nil.
func (s *CatalogService) CreateListing(ctx context.Context, in CreateListingInput, caller *models.Identity) (*models.Listing, error) {
	if in.Type != common.ListingTypeItem && in.Type != common.ListingTypeService {
		return nil, fmt.Errorf("%w: unknown type %q", common.ErrInvalidListing, in.Type)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidListing)
	}
	category, ok := s.resolveCategory(in)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category", common.ErrInvalidListing)
	}
	if category.ListingType != in.Type {
		return nil, fmt.Errorf("%w: category %s is for %s listings", common.ErrInvalidListing, category.Slug, category.ListingType)
	}

	owner, err := s.resolveOwner(ctx, caller)
	if err != nil {
		return nil, err
	}

	location := in.LocationType
	if location == "" {
		location = "on_campus"
	}
	contact := in.ContactPreference
	if contact == "" {
		contact = "in_app"
	}

	now := s.now()
	l := models.Listing{
		ID:                uuid.NewString(),
		Type:              in.Type,
		Title:             title,
		Description:       in.Description,
		PriceHint:         in.PriceHint,
		Category:          category.Ref(),
		LocationType:      location,
		LocationHint:      in.LocationHint,
		Availability:      in.Availability,
		ContactPreference: contact,
		Status:            common.ListingStatusActive,
		Photos:            []models.Photo{},
		Owner:             owner,
		CreatedAt:         now,
		ExpiresAt:         now.Add(listingLifetime),
	}
	if err := s.repomanager.Listings(dbx.Handle(s.db)).Add(ctx, l); err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}
	l.IsOwn = caller != nil
	return &l, nil
}

// Categories returns the catalog categories, optionally only those for one
// listing type.
func (s *CatalogService) Categories(listingType string) []models.Category {
	all := seed.Categories()
	if listingType == "" {
		return all
	}
	out := make([]models.Category, 0, len(all))
	for _, c := range all {
		if c.ListingType == listingType {
			out = append(out, c)
		}
	}
	return out
}

func (s *CatalogService) Campuses() []models.Campus {
	return seed.Campuses()
}
