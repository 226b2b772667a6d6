package games

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/testutil"
)

type captureSender struct {
	mu   sync.Mutex
	to   []string
	body []string
	sent chan struct{}
}

func newCaptureSender() *captureSender {
	return &captureSender{sent: make(chan struct{}, 8)}
}

func (c *captureSender) Send(_ context.Context, recipient, _, body string) error {
	c.mu.Lock()
	c.to = append(c.to, recipient)
	c.body = append(c.body, body)
	c.mu.Unlock()
	c.sent <- struct{}{}
	return nil
}

func (c *captureSender) SendFrom(ctx context.Context, recipient, subject, body, _ string) error {
	return c.Send(ctx, recipient, subject, body)
}

func (c *captureSender) wait(t *testing.T, count int) []string {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-c.sent:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for email %d of %d", i+1, count)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.to...)
}

type countingRecorder struct {
	final, provisional int
}

func (c *countingRecorder) RecordScore(final bool) {
	if final {
		c.final++
		return
	}
	c.provisional++
}

type gamesFixture struct {
	database *db.DB
	season   dbgen.Season
	hawks    dbgen.Team
	owls     dbgen.Team
	sender   *captureSender
	recorder *countingRecorder
	mux      *http.ServeMux
}

func setupGamesTest(t *testing.T) gamesFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	season := testutil.SeedSeason(t, database)
	hawks := testutil.SeedTeam(t, database, season.ID, "Hawks")
	owls := testutil.SeedTeam(t, database, season.ID, "Owls")

	sender := newCaptureSender()
	recorder := &countingRecorder{}
	h := NewHandler(Options{
		DB:       database,
		Sender:   sender,
		Recorder: recorder,
		BaseURL:  "https://league.example.com/",
		AppName:  "Test League",
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /seasons/{id}/schedule", h.HandleSchedulePage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/games", h.HandleListGames)
	mux.HandleFunc("POST /api/v1/seasons/{id}/games", h.HandleCreateGame)
	mux.HandleFunc("POST /api/v1/seasons/{id}/games/import", h.HandleImportGames)
	mux.HandleFunc("POST /api/v1/seasons/{id}/schedule/generate", h.HandleGenerateSchedule)
	mux.HandleFunc("PUT /api/v1/games/{id}/score", h.HandleRecordScore)

	return gamesFixture{database: database, season: season, hawks: hawks, owls: owls, sender: sender, recorder: recorder, mux: mux}
}

func (fx gamesFixture) do(req *http.Request, role string) *httptest.ResponseRecorder {
	if role != "" {
		req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 7, Email: role + "@example.com", Role: role}))
	}
	rec := httptest.NewRecorder()
	fx.mux.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func idPath(pattern string, id int64) string {
	return strings.Replace(pattern, "{id}", strconv.FormatInt(id, 10), 1)
}

func TestHandleCreateGame(t *testing.T) {
	fx := setupGamesTest(t)
	other := testutil.SeedSeason(t, fx.database)
	stranger := testutil.SeedTeam(t, fx.database, other.ID, "Strangers")
	path := idPath("/api/v1/seasons/{id}/games", fx.season.ID)

	valid := `{"homeTeamId":` + strconv.FormatInt(fx.hawks.ID, 10) + `,"awayTeamId":` + strconv.FormatInt(fx.owls.ID, 10) + `,"gameDate":"2024-01-08T19:00:00Z","venue":" Main Gym ","round":1}`

	tests := []struct {
		name   string
		role   string
		body   string
		status int
	}{
		{name: "anonymous", role: "", body: valid, status: http.StatusUnauthorized},
		{name: "scorekeeper", role: authz.RoleScorekeeper, body: valid, status: http.StatusForbidden},
		{name: "same team", role: authz.RoleAdmin, body: `{"homeTeamId":` + strconv.FormatInt(fx.hawks.ID, 10) + `,"awayTeamId":` + strconv.FormatInt(fx.hawks.ID, 10) + `,"gameDate":"2024-01-08"}`, status: http.StatusBadRequest},
		{name: "team from other season", role: authz.RoleAdmin, body: `{"homeTeamId":` + strconv.FormatInt(fx.hawks.ID, 10) + `,"awayTeamId":` + strconv.FormatInt(stranger.ID, 10) + `,"gameDate":"2024-01-08"}`, status: http.StatusBadRequest},
		{name: "bad date", role: authz.RoleAdmin, body: `{"homeTeamId":1,"awayTeamId":2,"gameDate":"next week"}`, status: http.StatusBadRequest},
		{name: "admin", role: authz.RoleAdmin, body: valid, status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(jsonRequest(http.MethodPost, path, tt.body), tt.role)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	games, err := fx.database.Queries.ListSeasonGames(context.Background(), fx.season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 || games[0].Venue != "Main Gym" || games[0].Round != 1 || games[0].HomeScore.Valid {
		t.Fatalf("unexpected games: %+v", games)
	}
}

func TestHandleCreateGameForm(t *testing.T) {
	fx := setupGamesTest(t)

	form := url.Values{}
	form.Set("home_team_id", strconv.FormatInt(fx.owls.ID, 10))
	form.Set("away_team_id", strconv.FormatInt(fx.hawks.ID, 10))
	form.Set("game_date", "2024-02-01 18:30")
	req := httptest.NewRequest(http.MethodPost, idPath("/api/v1/seasons/{id}/games", fx.season.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := fx.do(req, authz.RoleAdmin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HomeTeam != "Owls" || resp.AwayTeam != "Hawks" || !resp.GameDate.Equal(time.Date(2024, 2, 1, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected game: %+v", resp)
	}
}

func TestHandleGenerateSchedule(t *testing.T) {
	fx := setupGamesTest(t)
	testutil.SeedTeam(t, fx.database, fx.season.ID, "Bears")
	testutil.SeedTeam(t, fx.database, fx.season.ID, "Wolves")
	path := idPath("/api/v1/seasons/{id}/schedule/generate", fx.season.ID)
	body := func(replace bool) string {
		return `{"startDate":"2024-01-01","endDate":"2024-03-31","gameDays":["Mon","thursday"],"firstTipoff":"7:00 PM","gameDurationMinutes":60,"venues":["Main Gym","Annex"],"replace":` + strconv.FormatBool(replace) + `}`
	}

	rec := fx.do(jsonRequest(http.MethodPost, path, body(false)), authz.RoleAdmin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gamesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Four teams play three rounds of two games.
	if len(resp.Games) != 6 {
		t.Fatalf("expected 6 games, got %d", len(resp.Games))
	}
	first := resp.Games[0]
	if first.Round != 1 || !first.GameDate.Equal(time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)) || first.HomeTeam == "" {
		t.Fatalf("unexpected first game: %+v", first)
	}

	if rec := fx.do(jsonRequest(http.MethodPost, path, body(false)), authz.RoleAdmin); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 without replace, got %d", rec.Code)
	}
	if rec := fx.do(jsonRequest(http.MethodPost, path, body(true)), authz.RoleAdmin); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with replace, got %d: %s", rec.Code, rec.Body.String())
	}
	count, err := fx.database.Queries.CountSeasonGames(context.Background(), fx.season.ID)
	if err != nil || count != 6 {
		t.Fatalf("expected 6 games after replace, got %d (%v)", count, err)
	}
}

func TestHandleGenerateScheduleKeepsPlayedGames(t *testing.T) {
	fx := setupGamesTest(t)
	testutil.SeedGame(t, fx.database, fx.season.ID, fx.hawks.ID, fx.owls.ID, time.Date(2024, 1, 2, 19, 0, 0, 0, time.UTC), true, 60, 55)
	testutil.SeedGame(t, fx.database, fx.season.ID, fx.owls.ID, fx.hawks.ID, time.Date(2024, 1, 9, 19, 0, 0, 0, time.UTC), false, -1, -1)

	body := `{"startDate":"2024-01-01","endDate":"2024-03-31","gameDays":["tue"],"firstTipoff":"19:00","gameDurationMinutes":60,"venues":["Main Gym"],"replace":true}`
	rec := fx.do(jsonRequest(http.MethodPost, idPath("/api/v1/seasons/{id}/schedule/generate", fx.season.ID), body), authz.RoleAdmin)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// The delete rolled back with the transaction.
	count, err := fx.database.Queries.CountSeasonGames(context.Background(), fx.season.ID)
	if err != nil || count != 2 {
		t.Fatalf("expected both games to remain, got %d (%v)", count, err)
	}
}

func TestHandleGenerateScheduleValidation(t *testing.T) {
	fx := setupGamesTest(t)
	path := idPath("/api/v1/seasons/{id}/schedule/generate", fx.season.ID)

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown day", body: `{"startDate":"2024-01-01","endDate":"2024-03-31","gameDays":["Funday"],"firstTipoff":"19:00","gameDurationMinutes":60,"venues":["Gym"]}`},
		{name: "no duration", body: `{"startDate":"2024-01-01","endDate":"2024-03-31","gameDays":["Mon"],"firstTipoff":"19:00","venues":["Gym"]}`},
		{name: "no venues", body: `{"startDate":"2024-01-01","endDate":"2024-03-31","gameDays":["Mon"],"firstTipoff":"19:00","gameDurationMinutes":60,"venues":[" "]}`},
		{name: "too few days", body: `{"startDate":"2024-01-01","endDate":"2024-01-01","gameDays":["Mon"],"firstTipoff":"19:00","gameDurationMinutes":60,"venues":["Gym"],"doubleRoundRobin":true}`},
		{name: "unknown field", body: `{"start":"2024-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(jsonRequest(http.MethodPost, path, tt.body), authz.RoleAdmin)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRecordScoreSendsFinalEmail(t *testing.T) {
	fx := setupGamesTest(t)
	game := testutil.SeedGame(t, fx.database, fx.season.ID, fx.hawks.ID, fx.owls.ID, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), false, -1, -1)
	path := idPath("/api/v1/games/{id}/score", game.ID)

	rec := fx.do(jsonRequest(http.MethodPut, path, `{"homeScore":81,"awayScore":77}`), authz.RoleScorekeeper)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsCompleted || resp.HomeScore == nil || *resp.HomeScore != 81 || *resp.AwayScore != 77 {
		t.Fatalf("unexpected game: %+v", resp)
	}

	recipients := fx.sender.wait(t, 2)
	sort.Strings(recipients)
	if strings.Join(recipients, ",") != "Hawks@example.com,Owls@example.com" {
		t.Fatalf("unexpected recipients: %v", recipients)
	}
	fx.sender.mu.Lock()
	body := fx.sender.body[0]
	fx.sender.mu.Unlock()
	want := "https://league.example.com/seasons/" + strconv.FormatInt(fx.season.ID, 10) + "/standings"
	if !strings.Contains(body, want) {
		t.Fatalf("expected standings link %q in email body: %s", want, body)
	}
	if fx.recorder.final != 1 {
		t.Fatalf("expected one final score recorded, got %+v", fx.recorder)
	}

	// Saving the same final score again does not email twice.
	if rec := fx.do(jsonRequest(http.MethodPut, path, `{"homeScore":81,"awayScore":77}`), authz.RoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	select {
	case <-fx.sender.sent:
		t.Fatalf("unexpected second email")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleRecordScoreHTMX(t *testing.T) {
	fx := setupGamesTest(t)
	game := testutil.SeedGame(t, fx.database, fx.season.ID, fx.hawks.ID, fx.owls.ID, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), false, -1, -1)

	form := url.Values{}
	form.Set("home_score", "40")
	form.Set("away_score", "38")
	req := httptest.NewRequest(http.MethodPut, idPath("/api/v1/games/{id}/score", game.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	rec := fx.do(req, authz.RoleScorekeeper)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("HX-Trigger"); got != StandingsUpdatedEvent {
		t.Fatalf("expected HX-Trigger %q, got %q", StandingsUpdatedEvent, got)
	}
	if body := rec.Body.String(); !strings.Contains(body, `id="game-`+strconv.FormatInt(game.ID, 10)+`"`) || !strings.Contains(body, "40-38") {
		t.Fatalf("unexpected row: %s", body)
	}

	// An unchecked final box keeps the game provisional and sends no email.
	saved, err := fx.database.Queries.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if saved.IsCompleted || fx.recorder.provisional != 1 {
		t.Fatalf("expected provisional score, got %+v / %+v", saved, fx.recorder)
	}
}

func TestHandleRecordScoreErrors(t *testing.T) {
	fx := setupGamesTest(t)
	game := testutil.SeedGame(t, fx.database, fx.season.ID, fx.hawks.ID, fx.owls.ID, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), false, -1, -1)
	path := idPath("/api/v1/games/{id}/score", game.ID)

	tests := []struct {
		name   string
		role   string
		path   string
		body   string
		status int
	}{
		{name: "viewer", role: authz.RoleViewer, path: path, body: `{"homeScore":1,"awayScore":0}`, status: http.StatusForbidden},
		{name: "negative", role: authz.RoleAdmin, path: path, body: `{"homeScore":-1,"awayScore":0}`, status: http.StatusBadRequest},
		{name: "missing score", role: authz.RoleAdmin, path: path, body: `{"homeScore":1}`, status: http.StatusBadRequest},
		{name: "fractional", role: authz.RoleAdmin, path: path, body: `{"homeScore":1.5,"awayScore":0}`, status: http.StatusBadRequest},
		{name: "missing game", role: authz.RoleAdmin, path: "/api/v1/games/9999/score", body: `{"homeScore":1,"awayScore":0}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(jsonRequest(http.MethodPut, tt.path, tt.body), tt.role)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleImportGames(t *testing.T) {
	fx := setupGamesTest(t)
	hawks := strconv.FormatInt(fx.hawks.ID, 10)
	owls := strconv.FormatInt(fx.owls.ID, 10)

	body := `{"games":[
		{"homeTeamId":` + hawks + `,"awayTeamId":` + owls + `,"isCompleted":true,"homeScore":"88","awayScore":70,"gameDate":"2024-01-08"},
		{"homeTeamId":` + owls + `,"awayTeamId":` + hawks + `,"homeScore":null,"awayScore":null,"gameDate":"2024-01-15T19:00"},
		{"homeTeamId":` + owls + `,"awayTeamId":` + owls + `,"gameDate":"2024-01-22"},
		{"homeTeamId":` + owls + `,"awayTeamId":4242,"gameDate":"2024-01-22"},
		{"homeTeamId":` + owls + `,"awayTeamId":` + hawks + `,"gameDate":"someday"}
	]}`
	rec := fx.do(jsonRequest(http.MethodPost, idPath("/api/v1/seasons/{id}/games/import", fx.season.ID), body), authz.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp importResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Imported != 2 || resp.Skipped != 3 {
		t.Fatalf("unexpected import result: %+v", resp)
	}

	games, err := fx.database.Queries.ListSeasonGames(context.Background(), fx.season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if !games[0].IsCompleted || games[0].HomeScore.Int64 != 88 || games[1].HomeScore.Valid {
		t.Fatalf("unexpected imported games: %+v", games)
	}
}

func TestHandleListGames(t *testing.T) {
	fx := setupGamesTest(t)
	testutil.SeedGame(t, fx.database, fx.season.ID, fx.hawks.ID, fx.owls.ID, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), true, 80, 70)
	path := idPath("/api/v1/seasons/{id}/games", fx.season.ID)

	rec := fx.do(httptest.NewRequest(http.MethodGet, path, nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp gamesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Games) != 1 || resp.Games[0].HomeTeam != "Hawks" || *resp.Games[0].HomeScore != 80 {
		t.Fatalf("unexpected games: %+v", resp)
	}

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("HX-Request", "true")
	anon := fx.do(req, "").Body.String()
	if !strings.Contains(anon, "80-70") || strings.Contains(anon, "hx-put") {
		t.Fatalf("anonymous fragment should show scores without forms: %s", anon)
	}

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("HX-Request", "true")
	if keeper := fx.do(req, authz.RoleScorekeeper).Body.String(); !strings.Contains(keeper, "hx-put") {
		t.Fatalf("scorekeeper fragment should include score forms: %s", keeper)
	}

	if rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/v1/seasons/9999/games", nil), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing season, got %d", rec.Code)
	}
}

func TestHandleSchedulePage(t *testing.T) {
	fx := setupGamesTest(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, idPath("/seasons/{id}/schedule", fx.season.ID), nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "Winter 2024 schedule", "No games scheduled."} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Weekday
		ok   bool
	}{
		{raw: "Mon", want: time.Monday, ok: true},
		{raw: " saturday ", want: time.Saturday, ok: true},
		{raw: "SUN", want: time.Sunday, ok: true},
		{raw: "tu", ok: false},
		{raw: "Mondays", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseWeekday(tt.raw)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseWeekday(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
