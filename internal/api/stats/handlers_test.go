package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/testutil"
)

type statsFixture struct {
	database *db.DB
	season   dbgen.Season
	game     dbgen.Game
	ada      dbgen.Player
	bo       dbgen.Player
	outsider dbgen.Player
	mux      *http.ServeMux
}

func setupStatsTest(t *testing.T) statsFixture {
	t.Helper()
	ctx := context.Background()

	database := testutil.NewTestDB(t)
	season := testutil.SeedSeason(t, database)
	hawks := testutil.SeedTeam(t, database, season.ID, "Hawks")
	owls := testutil.SeedTeam(t, database, season.ID, "Owls")
	bears := testutil.SeedTeam(t, database, season.ID, "Bears")
	game := testutil.SeedGame(t, database, season.ID, hawks.ID, owls.ID, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), true, 80, 70)

	newPlayer := func(teamID int64, first, last string) dbgen.Player {
		player, err := database.Queries.CreatePlayer(ctx, dbgen.CreatePlayerParams{TeamID: teamID, FirstName: first, LastName: last})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		return player
	}

	h := NewHandler(database.Queries, "Test League")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /seasons/{id}/leaders", h.HandleLeadersPage)
	mux.HandleFunc("GET /api/v1/seasons/{id}/leaders", h.HandleLeaders)
	mux.HandleFunc("GET /api/v1/games/{id}/stats", h.HandleGameStats)
	mux.HandleFunc("PUT /api/v1/games/{id}/stats", h.HandleRecordStatLine)

	return statsFixture{
		database: database,
		season:   season,
		game:     game,
		ada:      newPlayer(hawks.ID, "Ada", "Guard"),
		bo:       newPlayer(owls.ID, "Bo", "Forward"),
		outsider: newPlayer(bears.ID, "Cy", "Center"),
		mux:      mux,
	}
}

func (fx statsFixture) do(req *http.Request, role string) *httptest.ResponseRecorder {
	if role != "" {
		req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 3, Role: role}))
	}
	rec := httptest.NewRecorder()
	fx.mux.ServeHTTP(rec, req)
	return rec
}

func (fx statsFixture) putLine(t *testing.T, playerID, points, rebounds int64) {
	t.Helper()
	body := fmt.Sprintf(`{"playerId":%d,"points":%d,"rebounds":%d}`, playerID, points, rebounds)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/games/"+strconv.FormatInt(fx.game.ID, 10)+"/stats", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if rec := fx.do(req, authz.RoleScorekeeper); rec.Code != http.StatusOK {
		t.Fatalf("put stat line: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleRecordStatLine(t *testing.T) {
	fx := setupStatsTest(t)
	path := "/api/v1/games/" + strconv.FormatInt(fx.game.ID, 10) + "/stats"

	tests := []struct {
		name   string
		role   string
		path   string
		body   string
		status int
	}{
		{name: "viewer", role: authz.RoleViewer, path: path, body: fmt.Sprintf(`{"playerId":%d,"points":10}`, fx.ada.ID), status: http.StatusForbidden},
		{name: "negative", role: authz.RoleScorekeeper, path: path, body: fmt.Sprintf(`{"playerId":%d,"points":-1}`, fx.ada.ID), status: http.StatusBadRequest},
		{name: "too many", role: authz.RoleScorekeeper, path: path, body: fmt.Sprintf(`{"playerId":%d,"points":501}`, fx.ada.ID), status: http.StatusBadRequest},
		{name: "missing player", role: authz.RoleScorekeeper, path: path, body: `{"playerId":9999,"points":1}`, status: http.StatusBadRequest},
		{name: "player not in game", role: authz.RoleScorekeeper, path: path, body: fmt.Sprintf(`{"playerId":%d,"points":1}`, fx.outsider.ID), status: http.StatusBadRequest},
		{name: "missing game", role: authz.RoleScorekeeper, path: "/api/v1/games/9999/stats", body: fmt.Sprintf(`{"playerId":%d,"points":1}`, fx.ada.ID), status: http.StatusNotFound},
		{name: "recorded", role: authz.RoleScorekeeper, path: path, body: fmt.Sprintf(`{"playerId":%d,"points":22,"assists":5}`, fx.ada.ID), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := fx.do(req, tt.role)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	// A corrected line replaces the original.
	fx.putLine(t, fx.ada.ID, 24, 3)
	stats, err := fx.database.Queries.ListGameStats(context.Background(), fx.game.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Points != 24 || stats[0].Assists != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestHandleLeaders(t *testing.T) {
	fx := setupStatsTest(t)
	fx.putLine(t, fx.ada.ID, 22, 4)
	fx.putLine(t, fx.bo.ID, 18, 11)

	get := func(query string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/"+strconv.FormatInt(fx.season.ID, 10)+"/leaders"+query, nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return fx.do(req, "")
	}

	rec := get("?stat=rebounds", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp leadersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stat != "rebounds" || len(resp.Leaders) != 2 || resp.Leaders[0].PlayerID != fx.bo.ID || resp.Leaders[0].Total != 11 {
		t.Fatalf("unexpected leaders: %+v", resp)
	}

	rec = get("?limit=1", map[string]string{"HX-Request": "true"})
	body := rec.Body.String()
	if !strings.Contains(body, `id="leaders-table"`) || !strings.Contains(body, "Ada Guard") || strings.Contains(body, "Bo Forward") {
		t.Fatalf("unexpected fragment: %s", body)
	}

	for _, query := range []string{"?stat=dunks", "?limit=0", "?limit=101", "?limit=x"} {
		if rec := get(query, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestHandleGameStatsEmpty(t *testing.T) {
	fx := setupStatsTest(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/v1/games/"+strconv.FormatInt(fx.game.ID, 10)+"/stats", nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"stats":[]`) {
		t.Fatalf("expected empty stats array, got %s", rec.Body.String())
	}
}

func TestHandleLeadersPage(t *testing.T) {
	fx := setupStatsTest(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/seasons/"+strconv.FormatInt(fx.season.ID, 10)+"/leaders", nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Winter 2024 leaders", "No stats recorded yet.", "stat=blocks"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}
