package leagues

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/testutil"
)

type fakeRecorder struct {
	calls int
	errs  int
}

func (f *fakeRecorder) RecordStandings(_ time.Duration, err error) {
	f.calls++
	if err != nil {
		f.errs++
	}
}

func TestStandingsServiceSeasonStandings(t *testing.T) {
	database := testutil.NewTestDB(t)
	season := testutil.SeedSeason(t, database)
	hawks := testutil.SeedTeam(t, database, season.ID, "Hawks")
	owls := testutil.SeedTeam(t, database, season.ID, "Owls")
	idle := testutil.SeedTeam(t, database, season.ID, "Aces")

	testutil.SeedGame(t, database, season.ID, hawks.ID, owls.ID, day(1), true, 80, 70)
	testutil.SeedGame(t, database, season.ID, owls.ID, hawks.ID, day(8), true, 66, 71)
	// Scheduled with no score yet.
	testutil.SeedGame(t, database, season.ID, idle.ID, hawks.ID, day(15), false, -1, -1)

	recorder := &fakeRecorder{}
	service := NewStandingsService(database.Queries, recorder)

	standings, err := service.SeasonStandings(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("season standings: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}
	if standings[0].TeamID != hawks.ID || standings[0].Wins != 2 || standings[0].Streak.String() != "W2" {
		t.Fatalf("unexpected leader: %+v", standings[0])
	}
	if standings[0].Logo != hawks.LogoUrl {
		t.Fatalf("expected logo %q, got %q", hawks.LogoUrl, standings[0].Logo)
	}
	if standings[2].TeamID != idle.ID || standings[2].LastFive != "0-0" {
		t.Fatalf("expected idle team last: %+v", standings[2])
	}
	if recorder.calls != 1 || recorder.errs != 0 {
		t.Fatalf("expected one successful recording, got %+v", recorder)
	}
}

func TestStandingsServiceRejectsMissingSeason(t *testing.T) {
	service := NewStandingsService(testutil.NewTestDB(t).Queries, nil)
	if _, err := service.SeasonStandings(context.Background(), 0); err == nil {
		t.Fatalf("expected error for missing season ID")
	}

	var nilService *StandingsService
	if _, err := nilService.SeasonStandings(context.Background(), 1); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestStandingsServiceSnapshots(t *testing.T) {
	database := testutil.NewTestDB(t)
	season := testutil.SeedSeason(t, database)
	hawks := testutil.SeedTeam(t, database, season.ID, "Hawks")
	owls := testutil.SeedTeam(t, database, season.ID, "Owls")
	testutil.SeedGame(t, database, season.ID, hawks.ID, owls.ID, day(1), true, 80, 70)

	service := NewStandingsService(database.Queries, nil)
	ctx := context.Background()

	if _, err := service.LatestSnapshot(ctx, season.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows before any snapshot, got %v", err)
	}

	older := time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 7)
	if _, err := service.TakeSnapshot(ctx, season.ID, older); err != nil {
		t.Fatalf("take older snapshot: %v", err)
	}
	taken, err := service.TakeSnapshot(ctx, season.ID, newer)
	if err != nil {
		t.Fatalf("take newer snapshot: %v", err)
	}
	if len(taken.Standings) != 2 {
		t.Fatalf("expected 2 standings in snapshot, got %d", len(taken.Standings))
	}

	latest, err := service.LatestSnapshot(ctx, season.ID)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if !latest.TakenAt.Equal(newer) {
		t.Fatalf("expected latest snapshot at %v, got %v", newer, latest.TakenAt)
	}
	if latest.Standings[0].TeamID != hawks.ID || latest.Standings[0].Streak != (Streak{Kind: StreakWin, Length: 1}) {
		t.Fatalf("snapshot did not round trip: %+v", latest.Standings[0])
	}

	removed, err := service.PruneSnapshots(ctx, season.ID, newer)
	if err != nil {
		t.Fatalf("prune snapshots: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 snapshot pruned, got %d", removed)
	}
}

func TestRankMovement(t *testing.T) {
	previous := []TeamStanding{{TeamID: 1}, {TeamID: 2}, {TeamID: 3}}
	current := []TeamStanding{{TeamID: 3}, {TeamID: 1}, {TeamID: 2}, {TeamID: 4}}

	movement := RankMovement(current, previous)
	if movement[3] != 2 || movement[1] != -1 || movement[2] != -1 {
		t.Fatalf("unexpected movement: %v", movement)
	}
	if _, ok := movement[4]; ok {
		t.Fatalf("expected new team to be omitted")
	}
}

func TestGameFromRowNullScores(t *testing.T) {
	row := dbgen.Game{
		ID:          9,
		HomeTeamID:  1,
		AwayTeamID:  2,
		IsCompleted: true,
		HomeScore:   sql.NullInt64{},
		AwayScore:   sql.NullInt64{Int64: 55, Valid: true},
	}
	game := GameFromRow(row)
	if game.HomeScore != 0 || game.AwayScore != 55 {
		t.Fatalf("unexpected scores %d/%d", game.HomeScore, game.AwayScore)
	}
	if game.Decided() {
		t.Fatalf("expected NULL score to leave game undecided")
	}
}
