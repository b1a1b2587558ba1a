package auth

import (
	"github.com/dmitrijs2005/campusmarket/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password. The plaintext copy is
// wiped once hashed.
func HashPassword(password string, cost int) ([]byte, error) {
	if len(password) > maxPasswordBytes {
		return nil, common.ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b := []byte(password)
	defer common.WipeByteArray(b)
	return bcrypt.GenerateFromPassword(b, cost)
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash []byte, password string) bool {
	if len(hash) == 0 {
		return false
	}
	b := []byte(password)
	defer common.WipeByteArray(b)
	return bcrypt.CompareHashAndPassword(hash, b) == nil
}
