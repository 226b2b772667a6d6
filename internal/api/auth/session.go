package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/leaguehub/internal/api/authz"
)

const authCookieName = "leaguehub_auth"

var (
	errAuthConfigMissing = errors.New("auth configuration missing")
	errInvalidCookie     = errors.New("invalid auth cookie")
	errSessionExpired    = errors.New("auth session expired")
)

type authSession struct {
	UserID      int64  `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role"`
	SessionType string `json:"session_type"`
	ExpiresAt   int64  `json:"exp"`
}

// SetAuthCookie issues a signed session cookie for user.
func (a *Authenticator) SetAuthCookie(w http.ResponseWriter, user *authz.AuthUser) error {
	if w == nil || user == nil {
		return errors.New("auth session requires response and user")
	}
	if a == nil || len(a.secret) == 0 {
		return errAuthConfigMissing
	}

	role := authz.NormalizeRole(user.Role)
	if role == "" {
		return errors.New("auth session requires a known role")
	}

	expiresAt := a.now().Add(a.sessionTTL)
	session := authSession{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        role,
		SessionType: normalizeSessionType(user.SessionType),
		ExpiresAt:   expiresAt.Unix(),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    encodedPayload + "." + a.signPayload(encodedPayload),
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(a.sessionTTL.Seconds()),
	})

	return nil
}

// ClearAuthCookie expires the session cookie.
func (a *Authenticator) ClearAuthCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a != nil && a.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// UserFromRequest returns the cookie's user, or nil when no cookie is present.
// A tampered or expired cookie is an error.
func (a *Authenticator) UserFromRequest(r *http.Request) (*authz.AuthUser, error) {
	session, err := a.parseAuthCookie(r)
	if err != nil || session == nil {
		return nil, err
	}

	return &authz.AuthUser{
		ID:          session.UserID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Role:        session.Role,
		SessionType: session.SessionType,
	}, nil
}

func (a *Authenticator) parseAuthCookie(r *http.Request) (*authSession, error) {
	if r == nil {
		return nil, nil
	}
	if a == nil || len(a.secret) == 0 {
		return nil, errAuthConfigMissing
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	encodedPayload, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil, errInvalidCookie
	}

	if !hmac.Equal([]byte(signature), []byte(a.signPayload(encodedPayload))) {
		return nil, errors.New("invalid auth cookie signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, errInvalidCookie
	}

	var session authSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errInvalidCookie
	}

	if session.ExpiresAt <= a.now().Unix() {
		return nil, errSessionExpired
	}

	session.Role = authz.NormalizeRole(session.Role)
	if session.Role == "" || session.UserID <= 0 {
		return nil, errInvalidCookie
	}
	session.SessionType = normalizeSessionType(session.SessionType)

	return &session, nil
}

func normalizeSessionType(sessionType string) string {
	if sessionType == authz.SessionTypeClerk {
		return authz.SessionTypeClerk
	}
	return authz.SessionTypePassword
}

func (a *Authenticator) signPayload(payload string) string {
	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
