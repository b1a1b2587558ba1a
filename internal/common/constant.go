package common

// AuthorizationHeaderName carries the bearer credential on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme accepted by the server.
const BearerScheme = "Bearer"

// TokenTypeBearer is reported in token envelopes.
const TokenTypeBearer = "bearer"

// Upload purposes.
const (
	PurposeAvatar       = "avatar"
	PurposeListingPhoto = "listing_photo"
)

// Listing types.
const (
	ListingTypeService = "service"
	ListingTypeItem    = "item"
)

// ListingStatusActive is the status given to newly created listings.
const ListingStatusActive = "active"
