package apiutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps FieldError to 400 and HandlerError to its status. Anything
// else is logged and reported as a 500 with fallback as the message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := log.Ctx(r.Context())

	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		http.Error(w, fieldErr.Error(), http.StatusBadRequest)
		return
	}

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(handlerErr.Err).Msg(handlerErr.Message)
		}
		http.Error(w, handlerErr.Message, handlerErr.Status)
		return
	}

	logger.Error().Err(err).Msg(fallback)
	http.Error(w, fallback, http.StatusInternalServerError)
}

// RequireRole writes 401/403 and returns false when the request user lacks roles.
func RequireRole(w http.ResponseWriter, r *http.Request, roles ...string) bool {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if err := authz.RequireRole(r.Context(), roles...); err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logger.Warn().Str("path", r.URL.Path).Msg("Access denied: unauthenticated")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, authz.ErrForbidden):
			logEvent := logger.Warn().Strs("required_roles", roles)
			if user != nil {
				logEvent = logEvent.Int64("user_id", user.ID).Str("role", user.Role)
			}
			logEvent.Msg("Access denied: forbidden")
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			logger.Error().Err(err).Msg("Access denied: error")
			http.Error(w, "Failed to authorize request", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// RenderHTMLComponent renders into a buffer first so a failed render never
// leaves a partial page on the wire.
func RenderHTMLComponent(ctx context.Context, w http.ResponseWriter, component templ.Component, headers map[string]string, logMsg, errMsg string) bool {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		http.Error(w, errMsg, http.StatusInternalServerError)
		return false
	}

	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to write HTML response")
		return false
	}
	return true
}

// IsJSONRequest reports whether the client sent or asked for JSON.
func IsJSONRequest(r *http.Request) bool {
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

// RenderPage renders body inside the base layout for the request's user.
func RenderPage(w http.ResponseWriter, r *http.Request, page layouts.Page, body templ.Component) bool {
	if page.User == nil {
		page.User = authz.UserFromContext(r.Context())
	}
	return RenderHTMLComponent(r.Context(), w, layouts.Base(page, body), nil, "Failed to render page", "Failed to render page")
}

// LookupError turns sql.ErrNoRows into a 404 naming what was missing. Other
// errors become a logged 500.
func LookupError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return HandlerError{Status: http.StatusNotFound, Message: what + " not found", Err: err}
	}
	return HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load " + strings.ToLower(what), Err: err}
}
