// Package seed holds the static catalog data the server starts with:
// categories, campuses, demo accounts and the initial listings.
package seed

import (
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

// DemoAccount is a built-in login. The password is hashed when the account
// service starts.
type DemoAccount struct {
	Account  models.Account
	Password string
}

const (
	DemoUserID   = "00000000-0000-4000-8000-000000000001"
	SellerUserID = "00000000-0000-4000-8000-000000000002"
)

var baseTime = time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)

func Categories() []models.Category {
	return []models.Category{
		{ID: "cat-textbooks", Name: "Textbooks", Slug: "textbooks", ListingType: common.ListingTypeItem},
		{ID: "cat-electronics", Name: "Electronics", Slug: "electronics", ListingType: common.ListingTypeItem},
		{ID: "cat-furniture", Name: "Furniture", Slug: "furniture", ListingType: common.ListingTypeItem},
		{ID: "cat-bikes", Name: "Bikes & Transport", Slug: "bikes-transport", ListingType: common.ListingTypeItem},
		{ID: "cat-tutoring", Name: "Tutoring", Slug: "tutoring", ListingType: common.ListingTypeService},
		{ID: "cat-moving", Name: "Moving & Labor", Slug: "moving-labor", ListingType: common.ListingTypeService},
		{ID: "cat-tech", Name: "Tech Help", Slug: "tech-help", ListingType: common.ListingTypeService},
		{ID: "cat-creative", Name: "Creative Services", Slug: "creative-services", ListingType: common.ListingTypeService},
	}
}

// CategoryBySlug looks a category up by slug.
func CategoryBySlug(slug string) (models.Category, bool) {
	for _, c := range Categories() {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Category{}, false
}

func Campuses() []models.Campus {
	return []models.Campus{
		{ID: "campus-north", Name: "North Campus", Slug: "north", EmailDomain: "north.campus.edu"},
		{ID: "campus-south", Name: "South Campus", Slug: "south", EmailDomain: "south.campus.edu"},
		{ID: "campus-downtown", Name: "Downtown Campus", Slug: "downtown", EmailDomain: "downtown.campus.edu"},
		{ID: "campus-medical", Name: "Medical Campus", Slug: "medical", EmailDomain: "med.campus.edu"},
	}
}

func DemoAccounts() []DemoAccount {
	year := 2027
	return []DemoAccount{
		{
			Account: models.Account{
				ID: DemoUserID, Email: "demo@campus.edu", DisplayName: "Demo Student",
				CampusSlug: "north", ClassYear: &year, Bio: "Selling last semester's books.",
				CreatedAt: baseTime, UpdatedAt: baseTime,
			},
			Password: "demo-password",
		},
		{
			Account: models.Account{
				ID: SellerUserID, Email: "seller@campus.edu", DisplayName: "Campus Seller",
				CampusSlug: "south", CreatedAt: baseTime, UpdatedAt: baseTime,
			},
			Password: "seller-password",
		},
	}
}

func str(s string) *string { return &s }

// Listings returns the ten starting listings in catalog order.
func Listings() []models.Listing {
	demo := models.Owner{ID: DemoUserID, DisplayName: "Demo Student", CampusSlug: "north"}
	seller := models.Owner{ID: SellerUserID, DisplayName: "Campus Seller", CampusSlug: "south"}

	cat := func(slug string) models.CategoryRef {
		c, _ := CategoryBySlug(slug)
		return c.Ref()
	}
	at := func(day int) time.Time { return baseTime.AddDate(0, 0, day) }

	mk := func(id, typ, title, desc string, price *string, category, location string, owner models.Owner, day int) models.Listing {
		return models.Listing{
			ID:                id,
			Type:              typ,
			Title:             title,
			Description:       desc,
			PriceHint:         price,
			Category:          cat(category),
			LocationType:      location,
			ContactPreference: "in_app",
			Status:            common.ListingStatusActive,
			Photos:            []models.Photo{},
			Owner:             owner,
			CreatedAt:         at(day),
			ExpiresAt:         at(day + 30),
		}
	}

	items := []models.Listing{
		mk("10000000-0000-4000-8000-000000000001", common.ListingTypeItem, "Calculus: Early Transcendentals, 8th edition",
			"Hardcover, light highlighting in the first three chapters.", str("$45"), "textbooks", "on_campus", demo, 0),
		mk("10000000-0000-4000-8000-000000000002", common.ListingTypeService, "Calculus tutoring (I and II)",
			"Math major, four semesters as a TA. Weekly or exam-cram sessions.", str("$25/hr"), "tutoring", "on_campus", seller, 1),
		mk("10000000-0000-4000-8000-000000000003", common.ListingTypeItem, "Mini fridge, barely used",
			"3.1 cu ft, fits under a dorm desk. Pickup only.", str("$60"), "electronics", "on_campus", seller, 2),
		mk("10000000-0000-4000-8000-000000000004", common.ListingTypeItem, "Desk and chair set",
			"Solid wood desk with an adjustable office chair.", str("$80"), "furniture", "off_campus", demo, 3),
		mk("10000000-0000-4000-8000-000000000005", common.ListingTypeService, "Help moving out this weekend",
			"Two people and a van. Boxes, furniture, storage runs.", str("$40/hr"), "moving-labor", "off_campus", seller, 4),
		mk("10000000-0000-4000-8000-000000000006", common.ListingTypeItem, "Road bike, 54cm frame",
			"Aluminium frame, new tires, lock included.", str("$220"), "bikes-transport", "on_campus", demo, 5),
		mk("10000000-0000-4000-8000-000000000007", common.ListingTypeService, "Laptop repair and setup",
			"Screen swaps, battery replacement, OS reinstalls.", nil, "tech-help", "remote", seller, 6),
		mk("10000000-0000-4000-8000-000000000008", common.ListingTypeItem, "Organic Chemistry textbook + solutions manual",
			"Klein, 4th edition. Both books for one price.", str("$70"), "textbooks", "on_campus", seller, 7),
		mk("10000000-0000-4000-8000-000000000009", common.ListingTypeService, "Graduation portrait photography",
			"30-minute sessions around campus, edited photos in a week.", str("$90"), "creative-services", "on_campus", demo, 8),
		mk("10000000-0000-4000-8000-00000000000a", common.ListingTypeItem, "Noise-cancelling headphones",
			"Over-ear, wireless, comes with the original case.", str("$110"), "electronics", "remote", demo, 9),
	}

	items[0].LocationHint = str("Main library lobby")
	items[1].Availability = str("Weeknights after 6pm")
	items[4].Availability = str("Saturdays and Sundays")
	items[6].ContactPreference = "email"
	return items
}
