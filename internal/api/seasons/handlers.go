// Package seasons serves the home page and league and season administration.
package seasons

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/apiutil"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/request"
	hometempl "github.com/codr1/leaguehub/internal/templates/components/home"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	seasonStatuses = map[string]bool{"upcoming": true, "active": true, "completed": true}
)

type Store interface {
	CreateLeague(ctx context.Context, arg dbgen.CreateLeagueParams) (dbgen.League, error)
	GetLeague(ctx context.Context, id int64) (dbgen.League, error)
	GetLeagueBySlug(ctx context.Context, slug string) (dbgen.League, error)
	ListLeagues(ctx context.Context) ([]dbgen.League, error)
	CreateSeason(ctx context.Context, arg dbgen.CreateSeasonParams) (dbgen.Season, error)
	ListActiveSeasons(ctx context.Context) ([]dbgen.Season, error)
	UpdateSeasonStatus(ctx context.Context, arg dbgen.UpdateSeasonStatusParams) (dbgen.Season, error)
}

type Handler struct {
	store   Store
	appName string
}

func NewHandler(store Store, appName string) *Handler {
	return &Handler{store: store, appName: appName}
}

// HandleHome handles GET /. A season_id query (or an htmx request made from a
// season page) jumps straight to that season's standings.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if seasonID, ok := request.SeasonIDFromRequest(r); ok {
		http.Redirect(w, r, fmt.Sprintf("/seasons/%d/standings", seasonID), http.StatusFound)
		return
	}

	seasons, err := h.activeSeasons(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load seasons")
		return
	}
	apiutil.RenderPage(w, r, layouts.Page{Title: "Home", AppName: h.appName}, hometempl.Seasons(seasons))
}

func (h *Handler) activeSeasons(ctx context.Context) ([]hometempl.SeasonLink, error) {
	rows, err := h.store.ListActiveSeasons(ctx)
	if err != nil {
		return nil, err
	}
	leagues := make(map[int64]dbgen.League)
	links := make([]hometempl.SeasonLink, 0, len(rows))
	for _, season := range rows {
		league, ok := leagues[season.LeagueID]
		if !ok {
			if league, err = h.store.GetLeague(ctx, season.LeagueID); err != nil {
				return nil, err
			}
			leagues[season.LeagueID] = league
		}
		links = append(links, hometempl.SeasonLink{ID: season.ID, Name: season.Name, LeagueName: league.Name, Sport: league.Sport})
	}
	return links, nil
}

// HandleListLeagues handles GET /api/v1/leagues.
func (h *Handler) HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.store.ListLeagues(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load leagues")
		return
	}
	if leagues == nil {
		leagues = []dbgen.League{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"leagues": leagues}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write leagues response")
	}
}

// HandleGetLeague handles GET /api/v1/leagues/{slug}.
func (h *Handler) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(strings.TrimSpace(r.PathValue("slug")))
	league, err := h.store.GetLeagueBySlug(r.Context(), slug)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "League"), "Failed to load league")
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, league); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write league response")
	}
}

type leagueRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Sport string `json:"sport"`
}

// HandleCreateLeague handles POST /api/v1/leagues.
func (h *Handler) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	var req leagueRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params := dbgen.CreateLeagueParams{
		Name:  strings.TrimSpace(req.Name),
		Slug:  strings.ToLower(strings.TrimSpace(req.Slug)),
		Sport: strings.ToLower(strings.TrimSpace(req.Sport)),
	}
	if params.Name == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "name", Reason: "is required"}, "Invalid league")
		return
	}
	if !slugPattern.MatchString(params.Slug) {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "slug", Reason: "must be lowercase letters, digits and dashes"}, "Invalid league")
		return
	}
	if params.Sport == "" {
		params.Sport = "basketball"
	}

	league, err := h.store.CreateLeague(r.Context(), params)
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "A league with that slug already exists", http.StatusConflict)
			return
		}
		apiutil.WriteError(w, r, err, "Failed to create league")
		return
	}

	logger.Info().Int64("league_id", league.ID).Str("slug", league.Slug).Msg("League created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, league); err != nil {
		logger.Error().Err(err).Msg("Failed to write league response")
	}
}

type seasonRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// HandleCreateSeason handles POST /api/v1/leagues/{slug}/seasons.
func (h *Handler) HandleCreateSeason(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	var req seasonRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params, err := req.params()
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	league, err := h.store.GetLeagueBySlug(r.Context(), strings.ToLower(r.PathValue("slug")))
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "League"), "Failed to load league")
		return
	}
	params.LeagueID = league.ID

	season, err := h.store.CreateSeason(r.Context(), params)
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "A season with that name already exists in this league", http.StatusConflict)
			return
		}
		apiutil.WriteError(w, r, err, "Failed to create season")
		return
	}

	logger.Info().Int64("league_id", league.ID).Int64("season_id", season.ID).Msg("Season created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, season); err != nil {
		logger.Error().Err(err).Msg("Failed to write season response")
	}
}

func (req seasonRequest) params() (dbgen.CreateSeasonParams, error) {
	params := dbgen.CreateSeasonParams{Name: strings.TrimSpace(req.Name), Status: strings.ToLower(strings.TrimSpace(req.Status))}
	if params.Name == "" {
		return params, apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	if params.Status == "" {
		params.Status = "upcoming"
	}
	if !seasonStatuses[params.Status] {
		return params, apiutil.FieldError{Field: "status", Reason: "must be upcoming, active or completed"}
	}

	var err error
	if params.StartDate, err = apiutil.ParseDateField(req.StartDate, "startDate", time.UTC); err != nil {
		return params, err
	}
	if params.EndDate, err = apiutil.ParseDateField(req.EndDate, "endDate", time.UTC); err != nil {
		return params, err
	}
	if params.EndDate.Before(params.StartDate) {
		return params, apiutil.FieldError{Field: "endDate", Reason: "must be on or after startDate"}
	}
	return params, nil
}

// HandleUpdateSeasonStatus handles PUT /api/v1/seasons/{id}/status. Only
// active seasons get nightly standings snapshots.
func (h *Handler) HandleUpdateSeasonStatus(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !seasonStatuses[status] {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "status", Reason: "must be upcoming, active or completed"}, "Invalid status")
		return
	}

	season, err := h.store.UpdateSeasonStatus(r.Context(), dbgen.UpdateSeasonStatusParams{Status: status, ID: seasonID})
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to update season")
		return
	}

	logger.Info().Int64("season_id", seasonID).Str("status", status).Msg("Season status updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, season); err != nil {
		logger.Error().Err(err).Msg("Failed to write season response")
	}
}
