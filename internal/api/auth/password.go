package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/codr1/leaguehub/internal/db/dbgen"
)

// dummyHash is compared against when no usable hash exists so that unknown
// accounts take as long to reject as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("leaguehub-no-such-user"), bcrypt.DefaultCost)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// checkUserPassword reports whether password matches user's hash. Users
// without a password (Clerk-only accounts) never match.
func checkUserPassword(user *dbgen.User, password string) bool {
	if user == nil || !user.PasswordHash.Valid || user.PasswordHash.String == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return VerifyPassword(user.PasswordHash.String, password)
}
