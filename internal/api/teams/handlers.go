// Package teams serves season teams and their rosters.
package teams

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/apiutil"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/api/htmx"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/roster"
	rostertempl "github.com/codr1/leaguehub/internal/templates/components/roster"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

const maxJerseyNumber = 99

type Handler struct {
	db      *db.DB
	region  string
	appName string
}

// NewHandler builds a handler. Phone numbers without a country code are read
// in region, which defaults to roster.DefaultRegion.
func NewHandler(database *db.DB, region, appName string) *Handler {
	if region == "" {
		region = roster.DefaultRegion
	}
	return &Handler{db: database, region: region, appName: appName}
}

type teamResponse struct {
	ID           int64     `json:"id"`
	SeasonID     int64     `json:"seasonId"`
	Name         string    `json:"name"`
	LogoURL      string    `json:"logoUrl"`
	CaptainEmail string    `json:"captainEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type playerResponse struct {
	ID           int64  `json:"id"`
	TeamID       int64  `json:"teamId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	JerseyNumber *int64 `json:"jerseyNumber"`
	Position     string `json:"position,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PhoneDisplay string `json:"phoneDisplay,omitempty"`
}

// HandleListTeams handles GET /api/v1/seasons/{id}/teams.
func (h *Handler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}
	if _, err := h.db.Queries.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}

	rows, err := h.db.Queries.ListSeasonTeams(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load teams")
		return
	}
	teams := make([]teamResponse, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, toTeamResponse(row))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"seasonId": seasonID, "teams": teams}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write teams response")
	}
}

type teamRequest struct {
	Name         string `json:"name"`
	LogoURL      string `json:"logoUrl"`
	CaptainEmail string `json:"captainEmail"`
}

func (req teamRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	if len(req.Name) > 100 {
		return apiutil.FieldError{Field: "name", Reason: "must be 100 characters or fewer"}
	}
	if email := roster.NormalizeEmail(req.CaptainEmail); email != "" && !strings.Contains(email, "@") {
		return apiutil.FieldError{Field: "captainEmail", Reason: "must be an email address"}
	}
	return nil
}

// HandleCreateTeam handles POST /api/v1/seasons/{id}/teams.
func (h *Handler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}
	if _, err := h.db.Queries.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}

	team, err := h.db.Queries.CreateTeam(r.Context(), dbgen.CreateTeamParams{
		SeasonID:     seasonID,
		Name:         strings.TrimSpace(req.Name),
		LogoUrl:      strings.TrimSpace(req.LogoURL),
		CaptainEmail: apiutil.ToNullString(roster.NormalizeEmail(req.CaptainEmail)),
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "A team with that name already exists this season", http.StatusConflict)
			return
		}
		apiutil.WriteError(w, r, err, "Failed to create team")
		return
	}

	logger.Info().Int64("season_id", seasonID).Int64("team_id", team.ID).Msg("Team created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, toTeamResponse(team)); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// HandleUpdateTeam handles PUT /api/v1/teams/{id}.
func (h *Handler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	teamID, err := apiutil.PathID(r, "id", "team")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}

	team, err := h.db.Queries.UpdateTeam(r.Context(), dbgen.UpdateTeamParams{
		Name:         strings.TrimSpace(req.Name),
		LogoUrl:      strings.TrimSpace(req.LogoURL),
		CaptainEmail: apiutil.ToNullString(roster.NormalizeEmail(req.CaptainEmail)),
		ID:           teamID,
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "A team with that name already exists this season", http.StatusConflict)
			return
		}
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Team"), "Failed to update team")
		return
	}

	logger.Info().Int64("team_id", team.ID).Msg("Team updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, toTeamResponse(team)); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// HandleRosterPage handles GET /teams/{id}.
func (h *Handler) HandleRosterPage(w http.ResponseWriter, r *http.Request) {
	teamID, err := apiutil.PathID(r, "id", "team")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}

	team, err := h.db.Queries.GetTeam(r.Context(), teamID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Team"), "Failed to load team")
		return
	}
	season, err := h.db.Queries.GetSeason(r.Context(), team.SeasonID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	list, err := h.buildList(r, teamID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load roster")
		return
	}

	page := rostertempl.Page(rostertempl.PageData{
		SeasonID:   season.ID,
		SeasonName: season.Name,
		TeamName:   team.Name,
		LogoURL:    team.LogoUrl,
		List:       list,
	})
	apiutil.RenderPage(w, r, layouts.Page{Title: team.Name, AppName: h.appName}, page)
}

// HandleListPlayers handles GET /api/v1/teams/{id}/players.
func (h *Handler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := apiutil.PathID(r, "id", "team")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}
	if _, err := h.db.Queries.GetTeam(r.Context(), teamID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Team"), "Failed to load team")
		return
	}

	if htmx.IsRequest(r) {
		h.renderList(w, r, teamID, "")
		return
	}

	rows, err := h.db.Queries.ListTeamPlayers(r.Context(), teamID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load players")
		return
	}
	players := make([]playerResponse, 0, len(rows))
	for _, row := range rows {
		players = append(players, toPlayerResponse(row))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teamId": teamID, "players": players}); err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to write players response")
	}
}

type playerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	JerseyNumber *int64 `json:"jerseyNumber"`
	Position     string `json:"position"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// HandleAddPlayer handles POST /api/v1/teams/{id}/players.
func (h *Handler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	teamID, err := apiutil.PathID(r, "id", "team")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}
	if _, err := h.db.Queries.GetTeam(r.Context(), teamID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Team"), "Failed to load team")
		return
	}

	player, err := h.addPlayer(r, teamID)
	if err != nil {
		if htmx.IsRequest(r) && isClientError(err) {
			// htmx only swaps 2xx responses, so the form error renders inline.
			h.renderList(w, r, teamID, err.Error())
			return
		}
		apiutil.WriteError(w, r, err, "Failed to add player")
		return
	}

	logger.Info().Int64("team_id", teamID).Int64("player_id", player.ID).Msg("Player added")
	if htmx.IsRequest(r) {
		h.renderList(w, r, teamID, "")
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, toPlayerResponse(player)); err != nil {
		logger.Error().Err(err).Int64("player_id", player.ID).Msg("Failed to write player response")
	}
}

func (h *Handler) addPlayer(r *http.Request, teamID int64) (dbgen.Player, error) {
	req, err := decodePlayerRequest(r)
	if err != nil {
		return dbgen.Player{}, err
	}
	params, err := h.playerParams(teamID, req)
	if err != nil {
		return dbgen.Player{}, err
	}
	player, err := h.db.Queries.CreatePlayer(r.Context(), params)
	if apiutil.IsSQLiteUniqueViolation(err) {
		return dbgen.Player{}, apiutil.HandlerError{Status: http.StatusConflict, Message: "That jersey number is already taken", Err: err}
	}
	return player, err
}

// HandleRemovePlayer handles DELETE /api/v1/teams/{id}/players/{playerID}.
func (h *Handler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	teamID, err := apiutil.PathID(r, "id", "team")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid team")
		return
	}
	playerID, err := apiutil.PathID(r, "playerID", "player")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid player")
		return
	}

	removed, err := h.db.Queries.DeletePlayer(r.Context(), dbgen.DeletePlayerParams{ID: playerID, TeamID: teamID})
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to remove player")
		return
	}
	if removed == 0 {
		apiutil.WriteError(w, r, apiutil.LookupError(sql.ErrNoRows, "Player"), "Player not found")
		return
	}

	logger.Info().Int64("team_id", teamID).Int64("player_id", playerID).Msg("Player removed")
	if htmx.IsRequest(r) {
		h.renderList(w, r, teamID, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) playerParams(teamID int64, req playerRequest) (dbgen.CreatePlayerParams, error) {
	params := dbgen.CreatePlayerParams{
		TeamID:    teamID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Position:  strings.TrimSpace(req.Position),
		Email:     apiutil.ToNullString(roster.NormalizeEmail(req.Email)),
	}
	if params.FirstName == "" || params.LastName == "" {
		return params, apiutil.FieldError{Field: "name", Reason: "first and last are required"}
	}
	if req.JerseyNumber != nil {
		if *req.JerseyNumber < 0 || *req.JerseyNumber > maxJerseyNumber {
			return params, apiutil.FieldError{Field: "jerseyNumber", Reason: "must be between 0 and 99"}
		}
		params.JerseyNumber = apiutil.ToNullInt64(req.JerseyNumber)
	}
	if raw := strings.TrimSpace(req.Phone); raw != "" {
		phone := roster.NormalizePhone(raw, h.region)
		if phone == "" {
			return params, apiutil.FieldError{Field: "phone", Reason: "is not a valid phone number"}
		}
		params.Phone = apiutil.ToNullString(phone)
	}
	return params, nil
}

func (h *Handler) buildList(r *http.Request, teamID int64) (rostertempl.ListData, error) {
	rows, err := h.db.Queries.ListTeamPlayers(r.Context(), teamID)
	if err != nil {
		return rostertempl.ListData{}, err
	}
	list := rostertempl.ListData{
		TeamID:    teamID,
		Players:   make([]rostertempl.PlayerRow, 0, len(rows)),
		CanManage: authz.HasRole(authz.UserFromContext(r.Context()), authz.RoleAdmin),
	}
	for _, row := range rows {
		list.Players = append(list.Players, toPlayerRow(row))
	}
	return list, nil
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, teamID int64, message string) {
	list, err := h.buildList(r, teamID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load roster")
		return
	}
	list.Error = message
	apiutil.RenderHTMLComponent(r.Context(), w, rostertempl.PlayerList(list), nil, "Failed to render roster", "Failed to render roster")
}

func decodePlayerRequest(r *http.Request) (playerRequest, error) {
	var req playerRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid form data", Err: err}
	}
	req.FirstName = r.FormValue("first_name")
	req.LastName = r.FormValue("last_name")
	req.Position = r.FormValue("position")
	req.Email = r.FormValue("email")
	req.Phone = r.FormValue("phone")
	if raw := strings.TrimSpace(r.FormValue("jersey_number")); raw != "" {
		jersey, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, apiutil.FieldError{Field: "jerseyNumber", Reason: "must be a number"}
		}
		req.JerseyNumber = &jersey
	}
	return req, nil
}

func isClientError(err error) bool {
	var fieldErr apiutil.FieldError
	if errors.As(err, &fieldErr) {
		return true
	}
	var handlerErr apiutil.HandlerError
	return errors.As(err, &handlerErr) && handlerErr.Status < http.StatusInternalServerError
}

func toTeamResponse(team dbgen.Team) teamResponse {
	return teamResponse{
		ID:           team.ID,
		SeasonID:     team.SeasonID,
		Name:         team.Name,
		LogoURL:      team.LogoUrl,
		CaptainEmail: team.CaptainEmail.String,
		CreatedAt:    team.CreatedAt,
	}
}

func toPlayerResponse(player dbgen.Player) playerResponse {
	resp := playerResponse{
		ID:        player.ID,
		TeamID:    player.TeamID,
		FirstName: player.FirstName,
		LastName:  player.LastName,
		Position:  player.Position,
		Email:     player.Email.String,
		Phone:     player.Phone.String,
	}
	if player.JerseyNumber.Valid {
		resp.JerseyNumber = &player.JerseyNumber.Int64
	}
	if player.Phone.Valid {
		resp.PhoneDisplay = roster.FormatPhone(player.Phone.String)
	}
	return resp
}

func toPlayerRow(player dbgen.Player) rostertempl.PlayerRow {
	row := rostertempl.PlayerRow{
		ID:       player.ID,
		Name:     strings.TrimSpace(player.FirstName + " " + player.LastName),
		Position: player.Position,
		Email:    player.Email.String,
	}
	if player.JerseyNumber.Valid {
		row.JerseyNumber = strconv.FormatInt(player.JerseyNumber.Int64, 10)
	}
	if player.Phone.Valid {
		row.Phone = roster.FormatPhone(player.Phone.String)
	}
	return row
}
