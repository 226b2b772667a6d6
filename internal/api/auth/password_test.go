package auth

import (
	"database/sql"
	"testing"

	"github.com/codr1/leaguehub/internal/db/dbgen"
)

func TestHashPasswordAndVerify(t *testing.T) {
	password := "fast-break!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hash == "" || hash == password {
		t.Fatalf("expected an opaque hash, got %q", hash)
	}

	if !VerifyPassword(hash, password) {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected password mismatch to fail")
	}
	if VerifyPassword("not-a-valid-hash", password) {
		t.Fatal("expected invalid hash to fail verification")
	}
}

func TestCheckUserPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	tests := []struct {
		name string
		user *dbgen.User
		want bool
	}{
		{name: "match", user: &dbgen.User{PasswordHash: sql.NullString{String: hash, Valid: true}}, want: true},
		{name: "nil user", user: nil},
		{name: "null hash", user: &dbgen.User{}},
		{name: "empty hash", user: &dbgen.User{PasswordHash: sql.NullString{Valid: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkUserPassword(tt.user, "secret"); got != tt.want {
				t.Fatalf("checkUserPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
