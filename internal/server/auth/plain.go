package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

const plainPrefix = "cm1."

type plainPayload struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// PlainCodec encodes the identity as base64url JSON behind a version prefix.
// There is no signature and no expiry: anyone can mint a token. The kind is
// not recorded, so access and refresh tokens for one identity are equal.
type PlainCodec struct{}

func NewPlainCodec() *PlainCodec {
	return &PlainCodec{}
}

func (PlainCodec) Encode(id models.Identity, _ TokenKind) (string, error) {
	if id.UserID == "" || id.Email == "" {
		return "", fmt.Errorf("%w: empty identity", common.ErrorInternal)
	}
	if !utf8.ValidString(id.UserID) || !utf8.ValidString(id.Email) {
		return "", fmt.Errorf("%w: identity is not valid UTF-8", common.ErrorInternal)
	}
	b, err := json.Marshal(plainPayload{UID: id.UserID, Email: id.Email})
	if err != nil {
		return "", err
	}
	return plainPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

func (c PlainCodec) Decode(token string, kind TokenKind) (models.Identity, error) {
	rest, ok := strings.CutPrefix(token, plainPrefix)
	if !ok || rest == "" {
		return models.Identity{}, common.ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(rest)
	if err != nil {
		return models.Identity{}, common.ErrInvalidToken
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var p plainPayload
	if err := dec.Decode(&p); err != nil || dec.More() {
		return models.Identity{}, common.ErrInvalidToken
	}
	id := models.Identity{UserID: p.UID, Email: p.Email}

	// Only strings Encode would have produced are accepted.
	again, err := c.Encode(id, kind)
	if err != nil || again != token {
		return models.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}
