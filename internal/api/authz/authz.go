package authz

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	RoleAdmin       = "admin"
	RoleScorekeeper = "scorekeeper"
	RoleViewer      = "viewer"
)

const (
	SessionTypePassword = "password"
	SessionTypeClerk    = "clerk"
)

type AuthUser struct {
	ID          int64
	Email       string
	DisplayName string
	Role        string
	SessionType string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// NormalizeRole returns the canonical role name, or "" for unknown roles.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleScorekeeper:
		return RoleScorekeeper
	case RoleViewer:
		return RoleViewer
	default:
		return ""
	}
}

// HasRole reports whether user holds any of roles. Admins hold every role.
func HasRole(user *AuthUser, roles ...string) bool {
	if user == nil {
		return false
	}
	role := NormalizeRole(user.Role)
	if role == "" {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, allowed := range roles {
		if NormalizeRole(allowed) == role {
			return true
		}
	}
	return false
}

// RequireRole returns ErrUnauthenticated without a user and ErrForbidden when
// the user holds none of roles.
func RequireRole(ctx context.Context, roles ...string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !HasRole(user, roles...) {
		return ErrForbidden
	}
	return nil
}

// CanRecordScores reports whether the user may enter scores and stat lines.
func CanRecordScores(user *AuthUser) bool {
	return HasRole(user, RoleScorekeeper)
}
