// Package auth holds session token codecs, bearer header parsing and
// password credential hashing.
package auth

import "github.com/dmitrijs2005/campusmarket/internal/server/models"

// TokenKind tells a codec which lifetime and type claim to use.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Codec turns an identity into an opaque bearer string and back.
//
// Decode must be the exact inverse of Encode for every value Encode
// produced, and must fail with common.ErrInvalidToken for anything else.
type Codec interface {
	Encode(id models.Identity, kind TokenKind) (string, error)
	Decode(token string, kind TokenKind) (models.Identity, error)
}
