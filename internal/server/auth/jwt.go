package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity plus the token kind, on top of the
// registered expiry and issue time.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"uid"`
	Email  string    `json:"email"`
	Kind   TokenKind `json:"typ"`
}

// JWTCodec signs tokens with HS256 and enforces per-kind lifetimes.
type JWTCodec struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTCodec(secretKey []byte, accessTTL, refreshTTL time.Duration) *JWTCodec {
	return &JWTCodec{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

func (c *JWTCodec) ttl(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return c.refreshTTL
	}
	return c.accessTTL
}

func (c *JWTCodec) Encode(id models.Identity, kind TokenKind) (string, error) {
	if id.UserID == "" || id.Email == "" {
		return "", fmt.Errorf("%w: empty identity", common.ErrorInternal)
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
		UserID: id.UserID,
		Email:  id.Email,
		Kind:   kind,
	})
	return token.SignedString(c.secretKey)
}

func (c *JWTCodec) Decode(tokenString string, kind TokenKind) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, fmt.Errorf("%w: expired", common.ErrInvalidToken)
		}
		return models.Identity{}, common.ErrInvalidToken
	}
	if !token.Valid || claims.Kind != kind || claims.UserID == "" || claims.Email == "" {
		return models.Identity{}, common.ErrInvalidToken
	}
	return models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
