// Package games manages season schedules and score entry.
package games

import (
	"context"
	"database/sql"
	"fmt"
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
	"github.com/codr1/leaguehub/internal/email"
	"github.com/codr1/leaguehub/internal/leagues"
	scheduletempl "github.com/codr1/leaguehub/internal/templates/components/schedule"
	"github.com/codr1/leaguehub/internal/templates/layouts"
)

// StandingsUpdatedEvent is fired via HX-Trigger whenever a score changes.
const StandingsUpdatedEvent = "standings-updated"

type ScoreRecorder interface {
	RecordScore(final bool)
}

type Options struct {
	DB *db.DB
	// Sender is optional; without it no final-score emails go out.
	Sender   email.Sender
	Recorder ScoreRecorder
	BaseURL  string
	AppName  string
}

type Handler struct {
	db       *db.DB
	sender   email.Sender
	recorder ScoreRecorder
	baseURL  string
	appName  string
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		db:       opts.DB,
		sender:   opts.Sender,
		recorder: opts.Recorder,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		appName:  opts.AppName,
	}
}

type gameResponse struct {
	ID          int64     `json:"id"`
	SeasonID    int64     `json:"seasonId"`
	Round       int64     `json:"round"`
	HomeTeamID  int64     `json:"homeTeamId"`
	HomeTeam    string    `json:"homeTeam"`
	AwayTeamID  int64     `json:"awayTeamId"`
	AwayTeam    string    `json:"awayTeam"`
	GameDate    time.Time `json:"gameDate"`
	Venue       string    `json:"venue"`
	IsCompleted bool      `json:"isCompleted"`
	HomeScore   *int64    `json:"homeScore"`
	AwayScore   *int64    `json:"awayScore"`
}

type gamesResponse struct {
	SeasonID int64          `json:"seasonId"`
	Games    []gameResponse `json:"games"`
}

// HandleSchedulePage handles GET /seasons/{id}/schedule.
func (h *Handler) HandleSchedulePage(w http.ResponseWriter, r *http.Request) {
	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	season, err := h.db.Queries.GetSeason(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	league, err := h.db.Queries.GetLeague(r.Context(), season.LeagueID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "League"), "Failed to load league")
		return
	}

	list, err := h.buildList(r, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load schedule")
		return
	}

	page := scheduletempl.Page(scheduletempl.PageData{
		LeagueName: league.Name,
		SeasonName: season.Name,
		List:       list,
	})
	apiutil.RenderPage(w, r, layouts.Page{Title: season.Name + " schedule", AppName: h.appName}, page)
}

// HandleListGames handles GET /api/v1/seasons/{id}/games.
func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
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

	if htmx.IsRequest(r) {
		list, err := h.buildList(r, seasonID)
		if err != nil {
			apiutil.WriteError(w, r, err, "Failed to load schedule")
			return
		}
		apiutil.RenderHTMLComponent(r.Context(), w, scheduletempl.GamesList(list), nil, "Failed to render schedule", "Failed to render schedule")
		return
	}

	teams, err := seasonTeams(r.Context(), h.db.Queries, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load teams")
		return
	}
	rows, err := h.db.Queries.ListSeasonGames(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load games")
		return
	}

	resp := gamesResponse{SeasonID: seasonID, Games: make([]gameResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Games = append(resp.Games, toGameResponse(row, teams))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write games response")
	}
}

type createGameRequest struct {
	HomeTeamID int64  `json:"homeTeamId"`
	AwayTeamID int64  `json:"awayTeamId"`
	GameDate   string `json:"gameDate"`
	Venue      string `json:"venue"`
	Round      int64  `json:"round"`
}

// HandleCreateGame handles POST /api/v1/seasons/{id}/games.
func (h *Handler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	req, err := decodeCreateGameRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid request body")
		return
	}
	gameDate, err := apiutil.ParseDateField(req.GameDate, "gameDate", time.UTC)
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid game date")
		return
	}
	if req.Round < 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "round", Reason: "must be 0 or greater"}, "Invalid round")
		return
	}

	if _, err := h.db.Queries.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	teams, err := seasonTeams(r.Context(), h.db.Queries, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load teams")
		return
	}
	if err := validateMatchup(teams, req.HomeTeamID, req.AwayTeamID); err != nil {
		apiutil.WriteError(w, r, err, "Invalid teams")
		return
	}

	game, err := h.db.Queries.CreateGame(r.Context(), dbgen.CreateGameParams{
		SeasonID:   seasonID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		GameDate:   gameDate,
		Venue:      strings.TrimSpace(req.Venue),
		Round:      req.Round,
	})
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to create game")
		return
	}

	logger.Info().Int64("season_id", seasonID).Int64("game_id", game.ID).Msg("Game created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, toGameResponse(game, teams)); err != nil {
		logger.Error().Err(err).Int64("game_id", game.ID).Msg("Failed to write game response")
	}
}

type generateRequest struct {
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
	GameDays            []string `json:"gameDays"`
	FirstTipoff         string   `json:"firstTipoff"`
	GameDurationMinutes int      `json:"gameDurationMinutes"`
	Venues              []string `json:"venues"`
	DoubleRoundRobin    bool     `json:"doubleRoundRobin"`
	// Replace deletes unplayed games before generating.
	Replace bool `json:"replace"`
}

// HandleGenerateSchedule handles POST /api/v1/seasons/{id}/schedule/generate.
func (h *Handler) HandleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	var req generateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	opts, err := req.scheduleOptions()
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid schedule options")
		return
	}

	if _, err := h.db.Queries.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	teamRows, err := h.db.Queries.ListSeasonTeams(r.Context(), seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load teams")
		return
	}
	teams := make([]leagues.Team, 0, len(teamRows))
	byID := make(map[int64]dbgen.Team, len(teamRows))
	for _, row := range teamRows {
		teams = append(teams, leagues.TeamFromRow(row))
		byID[row.ID] = row
	}

	planned, err := leagues.GenerateRoundRobinSchedule(seasonID, teams, opts)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}, "Invalid schedule")
		return
	}

	var created []dbgen.Game
	var replaced int64
	err = h.db.RunInTx(r.Context(), func(tx *db.DB) error {
		existing, err := tx.Queries.CountSeasonGames(r.Context(), seasonID)
		if err != nil {
			return err
		}
		if existing > 0 {
			if !req.Replace {
				return apiutil.HandlerError{Status: http.StatusConflict, Message: "Season already has games; set replace to regenerate"}
			}
			if replaced, err = tx.Queries.DeleteSeasonGames(r.Context(), seasonID); err != nil {
				return err
			}
			if existing > replaced {
				return apiutil.HandlerError{Status: http.StatusConflict, Message: "Season has completed games and cannot be regenerated"}
			}
		}

		created = make([]dbgen.Game, 0, len(planned))
		for _, game := range planned {
			row, err := tx.Queries.CreateGame(r.Context(), dbgen.CreateGameParams{
				SeasonID:   seasonID,
				HomeTeamID: game.HomeTeam.ID,
				AwayTeamID: game.AwayTeam.ID,
				GameDate:   game.StartTime,
				Venue:      game.Venue,
				Round:      int64(game.Round),
			})
			if err != nil {
				return fmt.Errorf("create round %d game: %w", game.Round, err)
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to generate schedule")
		return
	}

	logger.Info().
		Int64("season_id", seasonID).
		Int("games", len(created)).
		Int64("replaced", replaced).
		Msg("Schedule generated")

	resp := gamesResponse{SeasonID: seasonID, Games: make([]gameResponse, 0, len(created))}
	for _, row := range created {
		resp.Games = append(resp.Games, toGameResponse(row, byID))
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write schedule response")
	}
}

func (req generateRequest) scheduleOptions() (leagues.ScheduleOptions, error) {
	start, err := apiutil.ParseDateField(req.StartDate, "startDate", time.UTC)
	if err != nil {
		return leagues.ScheduleOptions{}, err
	}
	end, err := apiutil.ParseDateField(req.EndDate, "endDate", time.UTC)
	if err != nil {
		return leagues.ScheduleOptions{}, err
	}
	days := make([]time.Weekday, 0, len(req.GameDays))
	for _, raw := range req.GameDays {
		day, ok := parseWeekday(raw)
		if !ok {
			return leagues.ScheduleOptions{}, apiutil.FieldError{Field: "gameDays", Reason: fmt.Sprintf("has unknown day %q", raw)}
		}
		days = append(days, day)
	}
	if req.GameDurationMinutes <= 0 {
		return leagues.ScheduleOptions{}, apiutil.FieldError{Field: "gameDurationMinutes", Reason: "must be greater than 0"}
	}

	return leagues.ScheduleOptions{
		StartDate:        start,
		EndDate:          end,
		GameDays:         days,
		FirstTipoff:      req.FirstTipoff,
		GameDuration:     time.Duration(req.GameDurationMinutes) * time.Minute,
		Venues:           req.Venues,
		DoubleRoundRobin: req.DoubleRoundRobin,
	}, nil
}

func parseWeekday(raw string) (time.Weekday, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if len(name) < 3 {
		return 0, false
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, true
		}
	}
	return 0, false
}

type scoreRequest struct {
	HomeScore *int64 `json:"homeScore"`
	AwayScore *int64 `json:"awayScore"`
	Final     *bool  `json:"final"`
}

// HandleRecordScore handles PUT /api/v1/games/{id}/score. Marking a game final
// emails both captains and tells htmx clients to refresh standings.
func (h *Handler) HandleRecordScore(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin, authz.RoleScorekeeper) {
		return
	}

	gameID, err := apiutil.PathID(r, "id", "game")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid game")
		return
	}

	home, away, final, err := decodeScoreRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid score")
		return
	}
	if err := leagues.ValidateScore(home, away); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}, "Invalid score")
		return
	}

	previous, err := h.db.Queries.GetGame(r.Context(), gameID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Game"), "Failed to load game")
		return
	}

	game, err := h.db.Queries.RecordGameScore(r.Context(), dbgen.RecordGameScoreParams{
		HomeScore:   sql.NullInt64{Int64: home, Valid: true},
		AwayScore:   sql.NullInt64{Int64: away, Valid: true},
		IsCompleted: final,
		ID:          gameID,
	})
	if err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Game"), "Failed to record score")
		return
	}
	if h.recorder != nil {
		h.recorder.RecordScore(final)
	}

	event := logger.Info().Int64("game_id", gameID).Int64("home_score", home).Int64("away_score", away).Bool("final", final)
	if user := authz.UserFromContext(r.Context()); user != nil {
		event = event.Int64("recorded_by", user.ID)
	}
	event.Msg("Score recorded")

	teams, err := seasonTeams(r.Context(), h.db.Queries, game.SeasonID)
	if err != nil {
		logger.Warn().Err(err).Int64("season_id", game.SeasonID).Msg("Failed to load teams after score update")
		teams = map[int64]dbgen.Team{}
	}
	if final && scoreChanged(previous, game) {
		h.notifyFinalScore(r, game, teams)
	}

	if htmx.IsRequest(r) {
		htmx.Trigger(w, StandingsUpdatedEvent)
		row := toScheduleRow(game, teams)
		apiutil.RenderHTMLComponent(r.Context(), w, scheduletempl.Game(row, true), nil, "Failed to render game", "Failed to render game")
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, toGameResponse(game, teams)); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write score response")
	}
}

// scoreChanged reports whether an update produced a final result that has not
// been announced yet.
func scoreChanged(previous, current dbgen.Game) bool {
	if !previous.IsCompleted {
		return true
	}
	return previous.HomeScore != current.HomeScore || previous.AwayScore != current.AwayScore
}

func (h *Handler) notifyFinalScore(r *http.Request, game dbgen.Game, teams map[int64]dbgen.Team) {
	logger := log.Ctx(r.Context())
	if h.sender == nil {
		return
	}

	score := email.FinalScore{
		HomeTeam:     teams[game.HomeTeamID].Name,
		AwayTeam:     teams[game.AwayTeamID].Name,
		HomeScore:    game.HomeScore.Int64,
		AwayScore:    game.AwayScore.Int64,
		Venue:        game.Venue,
		PlayedAt:     game.GameDate,
		StandingsURL: fmt.Sprintf("%s/seasons/%d/standings", h.baseURL, game.SeasonID),
	}
	if season, err := h.db.Queries.GetSeason(r.Context(), game.SeasonID); err == nil {
		score.SeasonName = season.Name
		if league, err := h.db.Queries.GetLeague(r.Context(), season.LeagueID); err == nil {
			score.LeagueName = league.Name
		}
	}

	var recipients []string
	for _, id := range []int64{game.HomeTeamID, game.AwayTeamID} {
		if captain := teams[id].CaptainEmail; captain.Valid {
			recipients = append(recipients, captain.String)
		}
	}
	email.SendFinalScore(r.Context(), h.sender, recipients, score, logger)
}

type importRequest struct {
	Games []leagues.GameRecord `json:"games"`
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// HandleImportGames handles POST /api/v1/seasons/{id}/games/import. Records
// naming unknown teams, a team playing itself, or no usable date are skipped.
func (h *Handler) HandleImportGames(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.PathID(r, "id", "season")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid season")
		return
	}

	var req importRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.db.Queries.GetSeason(r.Context(), seasonID); err != nil {
		apiutil.WriteError(w, r, apiutil.LookupError(err, "Season"), "Failed to load season")
		return
	}
	teams, err := seasonTeams(r.Context(), h.db.Queries, seasonID)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load teams")
		return
	}

	var resp importResponse
	err = h.db.RunInTx(r.Context(), func(tx *db.DB) error {
		for _, game := range leagues.NormalizeGameRecords(req.Games) {
			if game.GameDate.IsZero() || validateMatchup(teams, game.HomeTeamID, game.AwayTeamID) != nil {
				resp.Skipped++
				continue
			}
			params := dbgen.CreateGameParams{
				SeasonID:    seasonID,
				HomeTeamID:  game.HomeTeamID,
				AwayTeamID:  game.AwayTeamID,
				GameDate:    game.GameDate,
				IsCompleted: game.IsCompleted,
			}
			if game.IsCompleted {
				params.HomeScore = sql.NullInt64{Int64: int64(game.HomeScore), Valid: true}
				params.AwayScore = sql.NullInt64{Int64: int64(game.AwayScore), Valid: true}
			}
			if _, err := tx.Queries.CreateGame(r.Context(), params); err != nil {
				return err
			}
			resp.Imported++
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to import games")
		return
	}

	logger.Info().Int64("season_id", seasonID).Int("imported", resp.Imported).Int("skipped", resp.Skipped).Msg("Games imported")
	if resp.Imported > 0 && htmx.IsRequest(r) {
		htmx.Trigger(w, StandingsUpdatedEvent)
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write import response")
	}
}

func (h *Handler) buildList(r *http.Request, seasonID int64) (scheduletempl.ListData, error) {
	teams, err := seasonTeams(r.Context(), h.db.Queries, seasonID)
	if err != nil {
		return scheduletempl.ListData{}, err
	}
	rows, err := h.db.Queries.ListSeasonGames(r.Context(), seasonID)
	if err != nil {
		return scheduletempl.ListData{}, err
	}

	list := scheduletempl.ListData{
		SeasonID:        seasonID,
		Games:           make([]scheduletempl.GameRow, 0, len(rows)),
		CanRecordScores: authz.CanRecordScores(authz.UserFromContext(r.Context())),
	}
	for _, row := range rows {
		list.Games = append(list.Games, toScheduleRow(row, teams))
	}
	return list, nil
}

type teamLister interface {
	ListSeasonTeams(ctx context.Context, seasonID int64) ([]dbgen.Team, error)
}

func seasonTeams(ctx context.Context, q teamLister, seasonID int64) (map[int64]dbgen.Team, error) {
	rows, err := q.ListSeasonTeams(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	teams := make(map[int64]dbgen.Team, len(rows))
	for _, row := range rows {
		teams[row.ID] = row
	}
	return teams, nil
}

func validateMatchup(teams map[int64]dbgen.Team, homeID, awayID int64) error {
	if homeID <= 0 || awayID <= 0 {
		return apiutil.FieldError{Field: "teams", Reason: "are required"}
	}
	if homeID == awayID {
		return apiutil.FieldError{Field: "teams", Reason: "must be different"}
	}
	if _, ok := teams[homeID]; !ok {
		return apiutil.FieldError{Field: "homeTeamId", Reason: "is not in this season"}
	}
	if _, ok := teams[awayID]; !ok {
		return apiutil.FieldError{Field: "awayTeamId", Reason: "is not in this season"}
	}
	return nil
}

func decodeCreateGameRequest(r *http.Request) (createGameRequest, error) {
	var req createGameRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid form data", Err: err}
	}
	var err error
	if req.HomeTeamID, err = apiutil.ParsePositiveInt64Field(r.FormValue("home_team_id"), "home_team_id"); err != nil {
		return req, err
	}
	if req.AwayTeamID, err = apiutil.ParsePositiveInt64Field(r.FormValue("away_team_id"), "away_team_id"); err != nil {
		return req, err
	}
	if raw := strings.TrimSpace(r.FormValue("round")); raw != "" {
		if req.Round, err = apiutil.ParseNonNegativeInt64Field(raw, "round"); err != nil {
			return req, err
		}
	}
	req.GameDate = r.FormValue("game_date")
	req.Venue = r.FormValue("venue")
	return req, nil
}

// decodeScoreRequest reads a score from JSON or a form. JSON omitting final
// means final; forms send final as a checkbox.
func decodeScoreRequest(r *http.Request) (home, away int64, final bool, err error) {
	if apiutil.IsJSONRequest(r) {
		var req scoreRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return 0, 0, false, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
		}
		if req.HomeScore == nil || req.AwayScore == nil {
			return 0, 0, false, apiutil.FieldError{Field: "scores", Reason: "are required"}
		}
		final = req.Final == nil || *req.Final
		return *req.HomeScore, *req.AwayScore, final, nil
	}

	if err := r.ParseForm(); err != nil {
		return 0, 0, false, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid form data", Err: err}
	}
	if home, err = apiutil.ParseNonNegativeInt64Field(r.FormValue("home_score"), "home_score"); err != nil {
		return 0, 0, false, err
	}
	if away, err = apiutil.ParseNonNegativeInt64Field(r.FormValue("away_score"), "away_score"); err != nil {
		return 0, 0, false, err
	}
	final, _ = strconv.ParseBool(r.FormValue("final"))
	return home, away, final, nil
}

func toGameResponse(game dbgen.Game, teams map[int64]dbgen.Team) gameResponse {
	resp := gameResponse{
		ID:          game.ID,
		SeasonID:    game.SeasonID,
		Round:       game.Round,
		HomeTeamID:  game.HomeTeamID,
		HomeTeam:    teams[game.HomeTeamID].Name,
		AwayTeamID:  game.AwayTeamID,
		AwayTeam:    teams[game.AwayTeamID].Name,
		GameDate:    game.GameDate,
		Venue:       game.Venue,
		IsCompleted: game.IsCompleted,
	}
	if game.HomeScore.Valid {
		resp.HomeScore = &game.HomeScore.Int64
	}
	if game.AwayScore.Valid {
		resp.AwayScore = &game.AwayScore.Int64
	}
	return resp
}

func toScheduleRow(game dbgen.Game, teams map[int64]dbgen.Team) scheduletempl.GameRow {
	return scheduletempl.GameRow{
		ID:          game.ID,
		Round:       game.Round,
		GameDate:    game.GameDate,
		Venue:       game.Venue,
		HomeTeam:    teamName(teams, game.HomeTeamID),
		AwayTeam:    teamName(teams, game.AwayTeamID),
		HomeScore:   game.HomeScore,
		AwayScore:   game.AwayScore,
		IsCompleted: game.IsCompleted,
	}
}

func teamName(teams map[int64]dbgen.Team, id int64) string {
	if team, ok := teams[id]; ok {
		return team.Name
	}
	return fmt.Sprintf("Team %d", id)
}
