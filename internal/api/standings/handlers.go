// Package standings serves league tables as pages, htmx fragments and JSON.
package standings

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/apiutil"
	"github.com/codr1/leaguehub/internal/api/htmx"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/leagues"
	standingstempl "github.com/codr1/leaguehub/internal/templates/components/standings"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

type SeasonStore interface {
	GetSeason(ctx context.Context, id int64) (dbgen.Season, error)
	GetLeague(ctx context.Context, id int64) (dbgen.League, error)
}

type StandingsSource interface {
	SeasonStandings(ctx context.Context, seasonID int64) ([]leagues.TeamStanding, error)
	LatestSnapshot(ctx context.Context, seasonID int64) (leagues.Snapshot, error)
}

type Handler struct {
	seasons   SeasonStore
	standings StandingsSource
	appName   string
}

func NewHandler(seasons SeasonStore, standings StandingsSource, appName string) *Handler {
	return &Handler{seasons: seasons, standings: standings, appName: appName}
}

type standingsResponse struct {
	SeasonID   int64                  `json:"seasonId"`
	Standings  []leagues.TeamStanding `json:"standings"`
	Movement   map[int64]int          `json:"movement,omitempty"`
	SnapshotAt *time.Time             `json:"snapshotAt,omitempty"`
}

// HandleStandingsPage handles GET /seasons/{id}/standings.
func (h *Handler) HandleStandingsPage(w http.ResponseWriter, r *http.Request) {
	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	season, err := h.seasons.GetSeason(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	league, err := h.seasons.GetLeague(r.Context(), season.LeagueID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "League"), "Failed to load league")
		return
	}

	table, err := h.buildTable(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load standings")
		return
	}

	page := standingstempl.Page(standingstempl.PageData{
		LeagueName: league.Name,
		SeasonName: season.Name,
		Table:      table,
	})
	apiutil.RenderPage(w, r, layouts.Page{Title: season.Name + " standings", AppName: h.appName}, page)
}

// HandleStandings handles GET /api/v1/seasons/{id}/standings. htmx requests
// get the table fragment, everything else gets JSON.
func (h *Handler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}
	if _, err := h.seasons.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}

	table, err := h.buildTable(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load standings")
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, standingstempl.Table(table), nil, "Failed to render standings table", "Failed to render standings")
		return
	}

	resp := standingsResponse{SeasonID: seasonID, Standings: table.Standings, Movement: table.Movement}
	if !table.SnapshotAt.IsZero() {
		resp.SnapshotAt = &table.SnapshotAt
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write standings response")
	}
}

// HandleStandingsHistory handles GET /api/v1/seasons/{id}/standings/history
// and returns the most recent snapshot.
func (h *Handler) HandleStandingsHistory(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	snapshot, err := h.standings.LatestSnapshot(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No standings snapshot yet", http.StatusNotFound)
			return
		}
		apiutil.WriteError(w, r, err, "Failed to load standings snapshot")
		return
	}

	resp := standingsResponse{SeasonID: snapshot.SeasonID, Standings: snapshot.Standings, SnapshotAt: &snapshot.TakenAt}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write snapshot response")
	}
}

// buildTable computes current standings and, when a snapshot exists, the rank
// movement since it was taken.
func (h *Handler) buildTable(ctx context.Context, seasonID int64) (standingstempl.TableData, error) {
	current, err := h.standings.SeasonStandings(ctx, seasonID)
	if err != nil {
		return standingstempl.TableData{}, err
	}
	if current == nil {
		current = []leagues.TeamStanding{}
	}
	table := standingstempl.TableData{SeasonID: seasonID, Standings: current}

	snapshot, err := h.standings.LatestSnapshot(ctx, seasonID)
	switch {
	case err == nil:
		table.Movement = leagues.RankMovement(current, snapshot.Standings)
		table.SnapshotAt = snapshot.TakenAt
	case errors.Is(err, sql.ErrNoRows):
	default:
		log.Ctx(ctx).Warn().Err(err).Int64("season_id", seasonID).Msg("Failed to load standings snapshot")
	}
	return table, nil
}
