// Package stats records player box scores and ranks season leaders.
package stats

import (
	"context"
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
	"github.com/codr1/leaguehub/internal/leagues"
	leaderstempl "github.com/codr1/leaguehub/internal/templates/components/leaders"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

const (
	defaultLeaderLimit = 10
	maxLeaderLimit     = 100
)

type Store interface {
	GetSeason(ctx context.Context, id int64) (dbgen.Season, error)
	GetLeague(ctx context.Context, id int64) (dbgen.League, error)
	GetGame(ctx context.Context, id int64) (dbgen.Game, error)
	GetPlayer(ctx context.Context, id int64) (dbgen.Player, error)
	UpsertPlayerGameStat(ctx context.Context, arg dbgen.UpsertPlayerGameStatParams) (dbgen.PlayerGameStat, error)
	ListGameStats(ctx context.Context, gameID int64) ([]dbgen.PlayerGameStat, error)
	ListSeasonPlayerTotals(ctx context.Context, seasonID int64) ([]dbgen.ListSeasonPlayerTotalsRow, error)
}

type Handler struct {
	store   Store
	appName string
}

func NewHandler(store Store, appName string) *Handler {
	return &Handler{store: store, appName: appName}
}

type leadersResponse struct {
	SeasonID int64                `json:"seasonId"`
	Stat     leagues.StatCategory `json:"stat"`
	Leaders  []leagues.StatLeader `json:"leaders"`
}

// HandleRecordStatLine handles PUT /api/v1/games/{id}/stats. The player must be
// on one of the two teams in the game; a second line for the same player
// replaces the first.
func (h *Handler) HandleRecordStatLine(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin, authz.RoleScorekeeper) {
		return
	}

	gameID, err := apiutil.PathID(r, "id", "game")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid game")
		return
	}

	var line leagues.StatLine
	if err := apiutil.DecodeJSON(r, &line); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := leagues.ValidateStatLine(line); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}, "Invalid stat line")
		return
	}

	game, err := h.store.GetGame(r.Context(), gameID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Game"), "Failed to load game")
		return
	}
	player, err := h.store.GetPlayer(r.Context(), line.PlayerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.FieldError{Field: "playerId", Reason: "does not exist"}, "Invalid player")
			return
		}
		apiutil.WriteError(w, r, err, "Failed to load player")
		return
	}
	if player.TeamID != game.HomeTeamID && player.TeamID != game.AwayTeamID {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "playerId", Reason: "is not on either team in this game"}, "Invalid player")
		return
	}

	stat, err := h.store.UpsertPlayerGameStat(r.Context(), dbgen.UpsertPlayerGameStatParams{
		GameID:   gameID,
		PlayerID: line.PlayerID,
		Points:   line.Points,
		Rebounds: line.Rebounds,
		Assists:  line.Assists,
		Steals:   line.Steals,
		Blocks:   line.Blocks,
		Fouls:    line.Fouls,
	})
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to record stat line")
		return
	}

	logger.Info().Int64("game_id", gameID).Int64("player_id", line.PlayerID).Msg("Stat line recorded")
	if err := apiutil.WriteJSON(w, http.StatusOK, stat); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write stat line response")
	}
}

// HandleGameStats handles GET /api/v1/games/{id}/stats.
func (h *Handler) HandleGameStats(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	gameID, err := apiutil.PathID(r, "id", "game")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid game")
		return
	}
	if _, err := h.store.GetGame(r.Context(), gameID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Game"), "Failed to load game")
		return
	}

	stats, err := h.store.ListGameStats(r.Context(), gameID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load stats")
		return
	}
	if stats == nil {
		stats = []dbgen.PlayerGameStat{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "stats": stats}); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game stats response")
	}
}

// HandleLeadersPage handles GET /seasons/{id}/leaders.
func (h *Handler) HandleLeadersPage(w http.ResponseWriter, r *http.Request) {
	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	season, err := h.store.GetSeason(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	league, err := h.store.GetLeague(r.Context(), season.LeagueID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "League"), "Failed to load league")
		return
	}

	table, err := h.buildTable(r, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load leaders")
		return
	}

	page := leaderstempl.Page(leaderstempl.PageData{
		LeagueName: league.Name,
		SeasonName: season.Name,
		Table:      table,
	})
	apiutil.RenderPage(w, r, layouts.Page{Title: season.Name + " leaders", AppName: h.appName}, page)
}

// HandleLeaders handles GET /api/v1/seasons/{id}/leaders?stat=points&limit=10.
func (h *Handler) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}
	if _, err := h.store.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}

	table, err := h.buildTable(r, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load leaders")
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, leaderstempl.Table(table), nil, "Failed to render leaders", "Failed to render leaders")
		return
	}
	resp := leadersResponse{SeasonID: seasonID, Stat: table.Stat, Leaders: table.Leaders}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write leaders response")
	}
}

func (h *Handler) buildTable(r *http.Request, seasonID int64) (leaderstempl.TableData, error) {
	query := r.URL.Query()
	stat, err := leagues.ParseStatCategory(query.Get("stat"))
	if err != nil {
		return leaderstempl.TableData{}, apiutil.FieldError{Field: "stat", Reason: "must be points, rebounds, assists, steals or blocks"}
	}
	limit, err := parseLimit(query.Get("limit"))
	if err != nil {
		return leaderstempl.TableData{}, err
	}

	rows, err := h.store.ListSeasonPlayerTotals(r.Context(), seasonID)
	if err != nil {
		return leaderstempl.TableData{}, err
	}
	totals := make([]leagues.PlayerTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, leagues.PlayerTotalsFromRow(row))
	}

	leaders := leagues.RankLeaders(totals, stat, limit)
	if leaders == nil {
		leaders = []leagues.StatLeader{}
	}
	return leaderstempl.TableData{SeasonID: seasonID, Stat: stat, Leaders: leaders}, nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultLeaderLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxLeaderLimit {
		return 0, apiutil.FieldError{Field: "limit", Reason: "must be between 1 and 100"}
	}
	return limit, nil
}
