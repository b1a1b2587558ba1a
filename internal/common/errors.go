// Package common defines shared constants and sentinel errors used across
// the campusmarket server layers. Callers should use errors.Is to match these
// values: every specific error wraps one category error, so both the exact
// failure and its category can be tested.
package common

import (
	"errors"
	"fmt"
)

// Category errors. The HTTP layer maps each category to one status code.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrValidation      = errors.New("validation error")
	ErrParse           = errors.New("parse error")
	ErrUnauthenticated = errors.New("authentication error")
	ErrConflict        = errors.New("conflict")
)

// Identity errors.
var (
	ErrMissingFields      = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidEmailDomain = fmt.Errorf("%w: email must belong to an institutional domain", ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password is too long", ErrValidation)
	ErrDuplicateAccount   = fmt.Errorf("%w: account already exists", ErrConflict)
	ErrAccountNotFound    = fmt.Errorf("%w: account", ErrorNotFound)

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrNotAuthenticated   = fmt.Errorf("%w: not authenticated", ErrUnauthenticated)
)

// Upload handshake errors.
var (
	ErrInvalidPurpose        = fmt.Errorf("%w: unknown upload purpose", ErrValidation)
	ErrMissingUploadID       = fmt.Errorf("%w: upload_id is required", ErrValidation)
	ErrTransferTargetMissing = fmt.Errorf("%w: id query parameter is required", ErrParse)
	ErrUploadNotFound        = fmt.Errorf("%w: upload", ErrorNotFound)
	ErrMediaNotFound         = fmt.Errorf("%w: media object", ErrorNotFound)
)

// Catalog errors.
var (
	ErrInvalidListing  = fmt.Errorf("%w: invalid listing", ErrValidation)
	ErrListingNotFound = fmt.Errorf("%w: listing", ErrorNotFound)
)
