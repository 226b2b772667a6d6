// cmd/server/server.go
package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/codr1/leaguehub/internal/api"
	"github.com/codr1/leaguehub/internal/api/auth"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/api/games"
	"github.com/codr1/leaguehub/internal/api/seasons"
	"github.com/codr1/leaguehub/internal/api/standings"
	"github.com/codr1/leaguehub/internal/api/stats"
	"github.com/codr1/leaguehub/internal/api/teams"
	"github.com/codr1/leaguehub/internal/config"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/email"
	"github.com/codr1/leaguehub/internal/leagues"
	"github.com/codr1/leaguehub/internal/metrics"
	"github.com/codr1/leaguehub/internal/ratelimit"
	"github.com/codr1/leaguehub/internal/scheduler"
)

const (
	writeRatePerSecond = 100
	writeBurst         = 10
	loginIPMaxPerHour  = 60
)

// app holds the long-lived dependencies shared by every handler.
type app struct {
	cfg       *config.Config
	db        *db.DB
	auth      *auth.Authenticator
	limiter   *ratelimit.Limiter
	metrics   *metrics.Recorder
	standings *leagues.StandingsService
	scheduler *scheduler.Service
	sender    email.Sender
}

func newApp(cfg *config.Config, trustProxy bool) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{cfg: cfg, db: database}

	if cfg.Features.EnableMetrics {
		a.metrics = metrics.NewRecorder()
	}
	a.standings = leagues.NewStandingsService(database.Queries, a.metrics)

	a.limiter = ratelimit.New(&ratelimit.Config{
		MaxFailures:  cfg.Auth.LoginMaxFailures,
		Lockout:      cfg.Auth.LoginLockout,
		IPMaxPerHour: loginIPMaxPerHour,
	})

	clerkEnabled := auth.InitClerk(cfg.Auth.ClerkSecretKey) && cfg.Auth.ClerkPublishableKey != ""
	a.auth, err = auth.New(auth.Options{
		Users:               database.Queries,
		SecretKey:           cfg.App.SecretKey,
		SessionTTL:          cfg.Auth.SessionTTL,
		SecureCookies:       !cfg.IsDevelopment(),
		Limiter:             a.limiter,
		TrustProxy:          trustProxy,
		ClerkEnabled:        clerkEnabled,
		ClerkPublishableKey: cfg.Auth.ClerkPublishableKey,
		AppName:             cfg.App.Name,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init auth: %w", err)
	}

	sesClient, err := email.NewSESClientFromConfig(cfg.Email)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init email: %w", err)
	}
	// A nil *SESClient must not become a non-nil Sender.
	if sesClient != nil {
		a.sender = sesClient
	} else {
		log.Warn().Msg("Email is not configured; final-score notifications are disabled")
	}

	a.scheduler, err = scheduler.New()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	err = scheduler.RegisterStandingsJobs(a.scheduler, cfg.Jobs.StandingsRefresh, scheduler.StandingsJob{
		Seasons:       database.Queries,
		Standings:     a.standings,
		Recorder:      a.metrics,
		RetentionDays: cfg.Jobs.SnapshotRetention,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("register standings jobs: %w", err)
	}

	return a, nil
}

// Close releases the limiter and database. It is safe to call more than once.
func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
		a.limiter = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Error().Err(err).Msg("Failed to close database")
		}
		a.db = nil
	}
}

func newServer(a *app) *http.Server {
	router := http.NewServeMux()
	registerRoutes(router, a)

	// WithMetrics must stay innermost so it sees the mux pattern.
	var recorder api.HTTPRecorder
	if a.metrics != nil {
		recorder = a.metrics
	}
	handler := api.ChainMiddleware(
		router,
		api.WithMetrics(recorder),
		api.WithAuth(a.auth),
		a.auth.WithClerkSession,
		api.WithWriteThrottle(rate.NewLimiter(rate.Limit(writeRatePerSecond), writeBurst)),
		api.WithContentType,
		api.WithRecovery,
		api.WithLogging,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(a.cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, a *app) {
	appName := a.cfg.App.Name

	seasonsHandler := seasons.NewHandler(a.db.Queries, appName)
	mux.HandleFunc("GET /{$}", seasonsHandler.HandleHome)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := a.db.PingContext(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}

	// Auth
	mux.HandleFunc("GET /login", a.auth.HandleLoginPage)
	mux.HandleFunc("POST /api/v1/auth/login", a.auth.HandleStaffLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", a.auth.HandleLogout)
	mux.HandleFunc("GET /api/v1/auth/me", a.auth.HandleMe)
	mux.HandleFunc("GET /auth/clerk/callback", a.auth.HandleClerkCallback)

	// Leagues and seasons
	mux.HandleFunc("GET /api/v1/leagues", seasonsHandler.HandleListLeagues)
	mux.HandleFunc("POST /api/v1/leagues", seasonsHandler.HandleCreateLeague)
	mux.HandleFunc("GET /api/v1/leagues/{slug}", seasonsHandler.HandleGetLeague)
	mux.HandleFunc("POST /api/v1/leagues/{slug}/seasons", seasonsHandler.HandleCreateSeason)
	mux.HandleFunc("PUT /api/v1/seasons/{id}/status", seasonsHandler.HandleUpdateSeasonStatus)

	// Standings
	standingsHandler := standings.NewHandler(a.db.Queries, a.standings, appName)
	mux.HandleFunc("GET /seasons/{id}/standings", standingsHandler.HandleStandingsPage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/standings", standingsHandler.HandleStandings)
	mux.HandleFunc("GET /api/v1/seasons/{id}/standings/history", standingsHandler.HandleStandingsHistory)

	// Schedule and scores
	gamesHandler := games.NewHandler(games.Options{
		DB:       a.db,
		Sender:   a.sender,
		Recorder: a.metrics,
		BaseURL:  a.cfg.App.BaseURL,
		AppName:  appName,
	})
	mux.HandleFunc("GET /seasons/{id}/schedule", gamesHandler.HandleSchedulePage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/games", gamesHandler.HandleListGames)
	mux.HandleFunc("POST /api/v1/seasons/{id}/games", gamesHandler.HandleCreateGame)
	mux.HandleFunc("POST /api/v1/seasons/{id}/games/import", gamesHandler.HandleImportGames)
	mux.HandleFunc("POST /api/v1/seasons/{id}/schedule/generate", gamesHandler.HandleGenerateSchedule)
	mux.HandleFunc("PUT /api/v1/games/{id}/score", gamesHandler.HandleRecordScore)

	// Teams and rosters
	teamsHandler := teams.NewHandler(a.db, os.Getenv("PHONE_REGION"), appName)
	mux.HandleFunc("GET /teams/{id}", teamsHandler.HandleRosterPage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/teams", teamsHandler.HandleListTeams)
	mux.HandleFunc("POST /api/v1/seasons/{id}/teams", teamsHandler.HandleCreateTeam)
	mux.HandleFunc("PUT /api/v1/teams/{id}", teamsHandler.HandleUpdateTeam)
	mux.HandleFunc("GET /api/v1/teams/{id}/players", teamsHandler.HandleListPlayers)
	mux.HandleFunc("POST /api/v1/teams/{id}/players", teamsHandler.HandleAddPlayer)
	mux.HandleFunc("DELETE /api/v1/teams/{id}/players/{playerID}", teamsHandler.HandleRemovePlayer)

	// Player stats
	statsHandler := stats.NewHandler(a.db.Queries, appName)
	mux.HandleFunc("GET /seasons/{id}/leaders", statsHandler.HandleLeadersPage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/leaders", statsHandler.HandleLeaders)
	mux.HandleFunc("GET /api/v1/games/{id}/stats", statsHandler.HandleGameStats)
	mux.HandleFunc("PUT /api/v1/games/{id}/stats", statsHandler.HandleRecordStatLine)

	if a.cfg.Features.EnableDebug {
		registerDebugRoutes(mux)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "build/bin/static"
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
}

// registerDebugRoutes exposes pprof to admins only.
func registerDebugRoutes(mux *http.ServeMux) {
	adminOnly := api.WithRole(authz.RoleAdmin)
	mux.Handle("GET /debug/pprof/", adminOnly(http.HandlerFunc(pprof.Index)))
	mux.Handle("GET /debug/pprof/cmdline", adminOnly(http.HandlerFunc(pprof.Cmdline)))
	mux.Handle("GET /debug/pprof/profile", adminOnly(http.HandlerFunc(pprof.Profile)))
	mux.Handle("GET /debug/pprof/symbol", adminOnly(http.HandlerFunc(pprof.Symbol)))
	mux.Handle("GET /debug/pprof/trace", adminOnly(http.HandlerFunc(pprof.Trace)))
	log.Warn().Msg("Debug endpoints enabled at /debug/pprof/")
}
