// Package auth signs staff sessions and serves the login, logout and Clerk
// callback endpoints.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/ratelimit"
)

const defaultSessionTTL = 8 * time.Hour

type UserStore interface {
	GetUser(ctx context.Context, id int64) (dbgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (dbgen.User, error)
	GetUserByClerkID(ctx context.Context, clerkUserID sql.NullString) (dbgen.User, error)
	LinkClerkUser(ctx context.Context, arg dbgen.LinkClerkUserParams) error
}

// ClerkUserFetcher loads a Clerk user by ID. It defaults to the Clerk backend API.
type ClerkUserFetcher func(ctx context.Context, id string) (*clerk.User, error)

type Options struct {
	Users         UserStore
	SecretKey     string
	SessionTTL    time.Duration
	SecureCookies bool

	// Limiter is optional; without it password logins are not throttled.
	Limiter    *ratelimit.Limiter
	TrustProxy bool

	ClerkEnabled        bool
	ClerkPublishableKey string
	FetchClerkUser      ClerkUserFetcher

	// AppName titles the login page.
	AppName string

	Now func() time.Time
}

type Authenticator struct {
	users         UserStore
	secret        []byte
	sessionTTL    time.Duration
	secureCookies bool
	limiter       *ratelimit.Limiter
	trustProxy    bool

	clerkEnabled        bool
	clerkPublishableKey string
	fetchClerkUser      ClerkUserFetcher

	appName string
	now     func() time.Time
}

func New(opts Options) (*Authenticator, error) {
	if opts.Users == nil {
		return nil, errors.New("auth requires a user store")
	}
	if opts.SecretKey == "" {
		return nil, errAuthConfigMissing
	}

	a := &Authenticator{
		users:               opts.Users,
		secret:              []byte(opts.SecretKey),
		sessionTTL:          opts.SessionTTL,
		secureCookies:       opts.SecureCookies,
		limiter:             opts.Limiter,
		trustProxy:          opts.TrustProxy,
		clerkEnabled:        opts.ClerkEnabled,
		clerkPublishableKey: opts.ClerkPublishableKey,
		fetchClerkUser:      opts.FetchClerkUser,
		appName:             opts.AppName,
		now:                 opts.Now,
	}
	if a.sessionTTL <= 0 {
		a.sessionTTL = defaultSessionTTL
	}
	if a.fetchClerkUser == nil {
		a.fetchClerkUser = user.Get
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a, nil
}

// ClerkEnabled reports whether Clerk sign-in is offered.
func (a *Authenticator) ClerkEnabled() bool {
	return a != nil && a.clerkEnabled
}
