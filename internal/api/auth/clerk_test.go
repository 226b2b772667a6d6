package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/testutil"
)

func setupClerkTest(t *testing.T, fetch ClerkUserFetcher) (*db.DB, *Authenticator) {
	t.Helper()

	database := testutil.NewTestDB(t)
	testutil.SeedUser(t, database, "admin@example.com", authz.RoleAdmin, "")
	testutil.SeedUser(t, database, "viewer@example.com", authz.RoleViewer, "")

	a := newTestAuthenticator(t, Options{
		Users:          database.Queries,
		ClerkEnabled:   true,
		FetchClerkUser: fetch,
	})
	return database, a
}

func clerkUserWithEmails(id, primary string, emails ...string) *clerk.User {
	u := &clerk.User{ID: id}
	for i, address := range emails {
		emailID := "email_" + string(rune('a'+i))
		u.EmailAddresses = append(u.EmailAddresses, &clerk.EmailAddress{ID: emailID, EmailAddress: address})
		if address == primary {
			u.PrimaryEmailAddressID = &emailID
		}
	}
	return u
}

func TestInitClerk(t *testing.T) {
	if InitClerk("  ") {
		t.Fatalf("expected blank key to leave Clerk disabled")
	}
	if !InitClerk("sk_test_xxx") {
		t.Fatalf("expected key to enable Clerk")
	}
}

func TestFindLocalUserFromClerk(t *testing.T) {
	database, a := setupClerkTest(t, nil)
	ctx := context.Background()

	t.Run("primary email links clerk id", func(t *testing.T) {
		user, err := a.findLocalUserFromClerk(ctx, clerkUserWithEmails("user_admin", "Admin@Example.com", "other@example.com", "Admin@Example.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "admin@example.com" {
			t.Fatalf("expected admin, got %s", user.Email)
		}

		linked, err := database.Queries.GetUserByClerkID(ctx, sql.NullString{String: "user_admin", Valid: true})
		if err != nil || linked.ID != user.ID {
			t.Fatalf("expected clerk id linked, got %+v, %v", linked, err)
		}
	})

	t.Run("linked clerk id wins without email", func(t *testing.T) {
		user, err := a.findLocalUserFromClerk(ctx, &clerk.User{ID: "user_admin"})
		if err != nil || user.Email != "admin@example.com" {
			t.Fatalf("expected linked admin, got %+v, %v", user, err)
		}
	})

	t.Run("secondary email", func(t *testing.T) {
		user, err := a.findLocalUserFromClerk(ctx, clerkUserWithEmails("user_viewer", "nobody@example.com", "nobody@example.com", "viewer@example.com"))
		if err != nil || user.Email != "viewer@example.com" {
			t.Fatalf("expected viewer, got %+v, %v", user, err)
		}
	})

	t.Run("conflicting link", func(t *testing.T) {
		_, err := a.findLocalUserFromClerk(ctx, clerkUserWithEmails("user_intruder", "admin@example.com", "admin@example.com"))
		if !errors.Is(err, errClerkAccountConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.findLocalUserFromClerk(ctx, clerkUserWithEmails("user_x", "", "ghost@example.com"))
		if !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("expected sql.ErrNoRows, got %v", err)
		}
	})
}

func TestHandleClerkCallback(t *testing.T) {
	fetch := func(_ context.Context, id string) (*clerk.User, error) {
		if id == "user_broken" {
			return nil, errors.New("clerk unavailable")
		}
		return clerkUserWithEmails(id, "viewer@example.com", "viewer@example.com"), nil
	}
	_, a := setupClerkTest(t, fetch)

	callback := func(subject string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/clerk/callback", nil)
		if subject != "" {
			claims := &clerk.SessionClaims{RegisteredClaims: clerk.RegisteredClaims{Subject: subject}}
			req = req.WithContext(clerk.ContextWithSessionClaims(req.Context(), claims))
		}
		rec := httptest.NewRecorder()
		a.HandleClerkCallback(rec, req)
		return rec
	}

	if rec := callback(""); rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login without claims, got %d", rec.Code)
	}
	if rec := callback("user_broken"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when Clerk fails, got %d", rec.Code)
	}

	rec := callback("user_viewer")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d", rec.Code)
	}
	user, err := a.UserFromRequest(cookieRequest(rec.Result().Cookies()))
	if err != nil || user == nil {
		t.Fatalf("expected session cookie, got %+v, %v", user, err)
	}
	if user.Role != authz.RoleViewer || user.SessionType != authz.SessionTypeClerk {
		t.Fatalf("unexpected session user: %+v", user)
	}
}

func TestHandleClerkCallbackDisabled(t *testing.T) {
	a := newTestAuthenticator(t, Options{})

	rec := httptest.NewRecorder()
	a.HandleClerkCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/clerk/callback", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestWithClerkSessionPassesThroughWithoutCookie(t *testing.T) {
	_, a := setupClerkTest(t, nil)

	called := false
	handler := a.WithClerkSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := clerk.SessionClaimsFromContext(r.Context()); ok {
			t.Errorf("expected no claims")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatalf("expected next handler to run")
	}
}
