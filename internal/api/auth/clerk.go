package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/db/dbgen"
)

const clerkSessionCookie = "__session"

var errClerkAccountConflict = errors.New("local account is linked to a different Clerk user")

// InitClerk sets the Clerk SDK key and reports whether Clerk is usable.
// The SDK keeps the key in package state, so this runs once at startup.
func InitClerk(secretKey string) bool {
	if strings.TrimSpace(secretKey) == "" {
		log.Warn().Msg("Clerk secret key not configured")
		return false
	}
	clerk.SetKey(secretKey)
	log.Info().Msg("Clerk SDK initialized")
	return true
}

// WithClerkSession verifies the Clerk session cookie and stores its claims in
// the request context. Requests without a valid cookie pass through untouched.
func (a *Authenticator) WithClerkSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.ClerkEnabled() {
			next.ServeHTTP(w, r)
			return
		}

		sessionToken, err := r.Cookie(clerkSessionCookie)
		if err != nil || sessionToken.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
			Token: sessionToken.Value,
		})
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid Clerk session token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := clerk.ContextWithSessionClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandleClerkCallback exchanges a verified Clerk session for a local session
// cookie. Only users that already exist locally may sign in.
func (a *Authenticator) HandleClerkCallback(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !a.ClerkEnabled() {
		logger.Error().Msg("Clerk not configured")
		http.Error(w, "Authentication service not available", http.StatusServiceUnavailable)
		return
	}

	claims, ok := clerk.SessionClaimsFromContext(r.Context())
	if !ok || claims == nil || claims.Subject == "" {
		logger.Warn().Msg("No Clerk session claims in context")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	clerkUser, err := a.fetchClerkUser(r.Context(), claims.Subject)
	if err != nil {
		logger.Error().Err(err).Str("clerk_user_id", claims.Subject).Msg("Failed to get Clerk user")
		http.Error(w, "Failed to verify user", http.StatusInternalServerError)
		return
	}

	localUser, err := a.findLocalUserFromClerk(r.Context(), clerkUser)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			logger.Warn().Str("clerk_user_id", claims.Subject).Msg("Clerk user has no matching local account")
			http.Error(w, "Account not found. Ask a league admin to add you.", http.StatusForbidden)
		case errors.Is(err, errClerkAccountConflict):
			logger.Warn().Str("clerk_user_id", claims.Subject).Msg("Clerk user conflicts with linked local account")
			http.Error(w, "Account is linked to a different sign-in", http.StatusForbidden)
		default:
			logger.Error().Err(err).Msg("Failed to look up local user")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	authUser := authUserFromRow(localUser, authz.SessionTypeClerk)
	if err := a.SetAuthCookie(w, authUser); err != nil {
		logger.Error().Err(err).Int64("user_id", localUser.ID).Msg("Failed to set auth cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", localUser.ID).Str("role", authUser.Role).Msg("Clerk sign-in completed")
	http.Redirect(w, r, "/", http.StatusFound)
}

// findLocalUserFromClerk matches by linked Clerk ID, then primary email, then
// any other email on the Clerk account. An email match links the Clerk ID to
// the local user.
func (a *Authenticator) findLocalUserFromClerk(ctx context.Context, clerkUser *clerk.User) (dbgen.User, error) {
	if clerkUser == nil {
		return dbgen.User{}, sql.ErrNoRows
	}
	clerkID := sql.NullString{String: clerkUser.ID, Valid: clerkUser.ID != ""}

	if clerkID.Valid {
		linked, err := a.users.GetUserByClerkID(ctx, clerkID)
		if err == nil {
			return linked, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return dbgen.User{}, err
		}
	}

	for _, email := range clerkEmails(clerkUser) {
		local, err := a.users.GetUserByEmail(ctx, email)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return dbgen.User{}, err
		}

		if local.ClerkUserID.Valid {
			if local.ClerkUserID.String != clerkUser.ID {
				return dbgen.User{}, errClerkAccountConflict
			}
			return local, nil
		}
		if clerkID.Valid {
			if err := a.users.LinkClerkUser(ctx, dbgen.LinkClerkUserParams{ClerkUserID: clerkID, ID: local.ID}); err != nil {
				return dbgen.User{}, err
			}
			local.ClerkUserID = clerkID
		}
		return local, nil
	}

	return dbgen.User{}, sql.ErrNoRows
}

// clerkEmails lists the primary email first, then the rest in Clerk's order.
func clerkEmails(clerkUser *clerk.User) []string {
	var emails []string
	seen := make(map[string]bool)
	add := func(address string) {
		address = strings.ToLower(strings.TrimSpace(address))
		if address == "" || seen[address] {
			return
		}
		seen[address] = true
		emails = append(emails, address)
	}

	if clerkUser.PrimaryEmailAddressID != nil {
		for _, email := range clerkUser.EmailAddresses {
			if email != nil && email.ID == *clerkUser.PrimaryEmailAddressID {
				add(email.EmailAddress)
			}
		}
	}
	for _, email := range clerkUser.EmailAddresses {
		if email != nil {
			add(email.EmailAddress)
		}
	}
	return emails
}
