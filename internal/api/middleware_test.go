package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/codr1/leaguehub/internal/api/auth"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/testutil"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeHTTPRecorder struct {
	requests []recordedRequest
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func TestChainMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := ChainMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("inner"), tag("outer"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "outer,inner,handler" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected generated request ID echoed, got %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	incoming := "6f1c1f52-8c0e-4f57-9d7e-3c2b9a1d0e11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Fatalf("expected incoming request ID kept, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "<script>" {
		t.Fatalf("expected malformed request ID replaced")
	}
}

func TestWithLoggingWithoutRequestID(t *testing.T) {
	handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passed through, got %d", rec.Code)
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestWithAuthAndRole(t *testing.T) {
	authenticator, err := auth.New(auth.Options{
		Users:     testutil.NewTestDB(t).Queries,
		SecretKey: "middleware-test-secret-key-000000",
	})
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	cookieFor := func(role string) *http.Cookie {
		rec := httptest.NewRecorder()
		if err := authenticator.SetAuthCookie(rec, &authz.AuthUser{ID: 1, Email: "x@example.com", Role: role}); err != nil {
			t.Fatalf("set cookie: %v", err)
		}
		return rec.Result().Cookies()[0]
	}

	protected := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), WithRole(authz.RoleScorekeeper), WithAuth(authenticator))

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "viewer", cookie: cookieFor(authz.RoleViewer), want: http.StatusForbidden},
		{name: "scorekeeper", cookie: cookieFor(authz.RoleScorekeeper), want: http.StatusNoContent},
		{name: "admin", cookie: cookieFor(authz.RoleAdmin), want: http.StatusNoContent},
		{name: "forged", cookie: &http.Cookie{Name: "leaguehub_auth", Value: "bad.cookie"}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/games/1/score", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestWithMetricsUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/seasons/{id}/standings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	recorder := &fakeHTTPRecorder{}
	handler := ChainMiddleware(mux, WithMetrics(recorder), WithRequestID)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/seasons/42/standings", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if len(recorder.requests) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(recorder.requests))
	}
	if got := recorder.requests[0]; got.route != "GET /api/v1/seasons/{id}/standings" || got.status != http.StatusOK {
		t.Fatalf("unexpected first observation: %+v", got)
	}
	if got := recorder.requests[1]; got.route != "unmatched" || got.status != http.StatusNotFound {
		t.Fatalf("unexpected second observation: %+v", got)
	}
}

func TestWithWriteThrottle(t *testing.T) {
	handler := WithWriteThrottle(rate.NewLimiter(rate.Every(time.Hour), 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/api/v1/games", nil))
		return rec.Code
	}

	if got := send(http.MethodPost); got != http.StatusNoContent {
		t.Fatalf("expected first write allowed, got %d", got)
	}
	if got := send(http.MethodPut); got != http.StatusTooManyRequests {
		t.Fatalf("expected second write throttled, got %d", got)
	}
	if got := send(http.MethodGet); got != http.StatusNoContent {
		t.Fatalf("expected reads never throttled, got %d", got)
	}
}
