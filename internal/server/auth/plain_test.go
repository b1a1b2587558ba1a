package auth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

func TestPlainCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c := NewPlainCodec()
	ids := []models.Identity{
		{UserID: "3f0c7a52-0d5d-4a53-9d59-3b5cbf0b1a11", Email: "ada@campus.edu"},
		{UserID: "u", Email: "<weird>&\"quotes\"@x.edu"},
		{UserID: "üñî", Email: "ünicode@uni.edu"},
	}
	for _, id := range ids {
		tok, err := c.Encode(id, AccessToken)
		if err != nil {
			t.Fatalf("Encode error: %v", err)
		}
		got, err := c.Decode(tok, AccessToken)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", tok, err)
		}
		if got != id {
			t.Fatalf("identity mismatch: got %+v want %+v", got, id)
		}
		// deterministic and order-independent
		again, _ := c.Encode(id, AccessToken)
		if again != tok {
			t.Fatalf("Encode not deterministic: %q vs %q", again, tok)
		}
		got2, err := c.Decode(tok, AccessToken)
		if err != nil || got2 != got {
			t.Fatalf("second Decode differs: %+v %v", got2, err)
		}
	}
}

func TestPlainCodec_EncodeRejectsEmptyIdentity(t *testing.T) {
	t.Parallel()

	if _, err := NewPlainCodec().Encode(models.Identity{UserID: "x"}, AccessToken); err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestPlainCodec_EncodeRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	c := NewPlainCodec()
	ids := []models.Identity{
		{UserID: "u\xff", Email: "a@b.edu"},
		{UserID: "u1", Email: "a\xc3@b.edu"},
	}
	for _, id := range ids {
		if tok, err := c.Encode(id, AccessToken); err == nil {
			t.Fatalf("Encode(%+v) = %q, expected error", id, tok)
		}
	}
}

func TestPlainCodec_DecodeRejectsForeignStrings(t *testing.T) {
	t.Parallel()

	c := NewPlainCodec()
	valid, _ := c.Encode(models.Identity{UserID: "u1", Email: "a@b.edu"}, AccessToken)
	b64 := func(s string) string { return plainPrefix + base64.RawURLEncoding.EncodeToString([]byte(s)) }

	inputs := []string{
		"",
		"cm1.",
		"garbage",
		"Bearer " + valid,
		valid + "x",
		valid[:len(valid)-1],
		valid + "=",
		"cm2." + valid[len(plainPrefix):],
		plainPrefix + base64.StdEncoding.EncodeToString([]byte(`{"uid":"u1","email":"a@b.edu!"}`)),
		b64(`{"uid":"u1"}`),
		b64(`{"uid":"","email":"a@b.edu"}`),
		b64(`{"uid":"u1","email":"a@b.edu","admin":true}`),
		b64(`{"email":"a@b.edu","uid":"u1"}`),
		b64(`{"uid": "u1","email":"a@b.edu"}`),
		b64(`{"uid":"u1","email":"a@b.edu"} `),
		b64(`[1,2,3]`),
		b64(`null`),
		b64("\xff\xfe"),
		"eyJhbGciOiJIUzI1NiJ9.eyJ1aWQiOiJ1MSJ9.sig",
	}
	for _, in := range inputs {
		id, err := c.Decode(in, AccessToken)
		if !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Decode(%q) err = %v, want ErrInvalidToken", in, err)
		}
		if id != (models.Identity{}) {
			t.Fatalf("Decode(%q) returned partial identity %+v", in, id)
		}
	}
}

func FuzzPlainCodec_DecodeNeverPanics(f *testing.F) {
	c := NewPlainCodec()
	seed, _ := c.Encode(models.Identity{UserID: "u1", Email: "a@b.edu"}, AccessToken)
	f.Add(seed)
	f.Add("cm1.e30")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		id, err := c.Decode(s, AccessToken)
		if err != nil {
			if !errors.Is(err, common.ErrInvalidToken) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		again, err := c.Encode(id, AccessToken)
		if err != nil || again != s {
			t.Fatalf("accepted %q but it does not re-encode to itself", s)
		}
	})
}
