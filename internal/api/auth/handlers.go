package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/apiutil"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/api/htmx"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/ratelimit"
	authtempl "github.com/codr1/leaguehub/internal/templates/components/auth"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

const invalidCredentials = "Invalid email or password"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	SessionType string `json:"sessionType,omitempty"`
}

// HandleLoginPage handles GET /login.
func (a *Authenticator) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if authz.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form := authtempl.LoginForm(authtempl.LoginData{ClerkEnabled: a.ClerkEnabled()})
	page := layouts.Page{Title: "Sign in", AppName: a.appName}
	if a.ClerkEnabled() {
		page.ClerkPublishableKey = a.clerkPublishableKey
	}
	apiutil.RenderPage(w, r, page, form)
}

// HandleStaffLogin handles POST /api/v1/auth/login with a form or JSON body.
func (a *Authenticator) HandleStaffLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req loginRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		a.writeLoginFailure(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	ip := ratelimit.GetClientIP(r, a.trustProxy)
	if a.limiter != nil {
		if result := a.limiter.CheckLogin(email, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(email, ip, result.Reason)
			if result.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			a.writeLoginFailure(w, r, http.StatusTooManyRequests, "Too many sign-in attempts. Try again later.")
			return
		}
	}

	user, err := a.users.GetUserByEmail(r.Context(), email)
	var found *dbgen.User
	switch {
	case err == nil:
		found = &user
	case errors.Is(err, sql.ErrNoRows):
	default:
		logger.Error().Err(err).Msg("Failed to load user for login")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if !checkUserPassword(found, req.Password) {
		if a.limiter != nil && a.limiter.RecordFailure(email, ip) {
			logger.Warn().
				Str("identifier", ratelimit.SanitizeIdentifier(email)).
				Str("ip", ip).
				Msg("Account locked after repeated login failures")
		}
		logger.Info().Str("identifier", ratelimit.SanitizeIdentifier(email)).Msg("Staff login failed")
		a.writeLoginFailure(w, r, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if a.limiter != nil {
		a.limiter.RecordSuccess(email)
	}

	authUser := authUserFromRow(user, authz.SessionTypePassword)
	if authUser.Role == "" {
		logger.Error().Int64("user_id", user.ID).Str("role", user.Role).Msg("User has unknown role")
		a.writeLoginFailure(w, r, http.StatusForbidden, "Account is not permitted to sign in")
		return
	}
	if err := a.SetAuthCookie(w, authUser); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to set auth cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", user.ID).Str("role", authUser.Role).Msg("Staff login succeeded")

	switch {
	case htmx.IsRequest(r):
		htmx.Redirect(w, "/")
		w.WriteHeader(http.StatusOK)
	case apiutil.IsJSONRequest(r):
		if err := apiutil.WriteJSON(w, http.StatusOK, toUserResponse(authUser)); err != nil {
			logger.Error().Err(err).Msg("Failed to write login response")
		}
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleLogout handles POST /api/v1/auth/logout.
func (a *Authenticator) HandleLogout(w http.ResponseWriter, r *http.Request) {
	a.ClearAuthCookie(w)

	if user := authz.UserFromContext(r.Context()); user != nil {
		log.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User signed out")
	}

	if htmx.IsRequest(r) {
		htmx.Redirect(w, "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	if apiutil.IsJSONRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleMe handles GET /api/v1/auth/me. The profile is reloaded so a role
// change shows up before the cookie expires.
func (a *Authenticator) HandleMe(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	current := authz.UserFromContext(r.Context())
	if current == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := a.users.GetUser(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			a.ClearAuthCookie(w)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		logger.Error().Err(err).Int64("user_id", current.ID).Msg("Failed to load current user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, toUserResponse(authUserFromRow(user, current.SessionType))); err != nil {
		logger.Error().Err(err).Msg("Failed to write user response")
	}
}

func (a *Authenticator) writeLoginFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	if htmx.IsRequest(r) {
		// htmx only swaps 2xx responses.
		apiutil.RenderHTMLComponent(r.Context(), w, authtempl.LoginError(message), nil, "Failed to render login error", message)
		return
	}
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.WriteJSON(w, status, map[string]string{"error": message}); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write login error")
		}
		return
	}
	http.Error(w, message, status)
}

func authUserFromRow(user dbgen.User, sessionType string) *authz.AuthUser {
	return &authz.AuthUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        authz.NormalizeRole(user.Role),
		SessionType: normalizeSessionType(sessionType),
	}
}

func toUserResponse(user *authz.AuthUser) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		SessionType: user.SessionType,
	}
}
