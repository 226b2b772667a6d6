package leagues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/leaguehub/internal/db/dbgen"
)

type TeamSource interface {
	ListSeasonTeams(ctx context.Context, seasonID int64) ([]dbgen.Team, error)
}

type GameSource interface {
	ListSeasonGames(ctx context.Context, seasonID int64) ([]dbgen.Game, error)
}

type SnapshotStore interface {
	InsertStandingsSnapshot(ctx context.Context, arg dbgen.InsertStandingsSnapshotParams) (dbgen.StandingsSnapshot, error)
	GetLatestStandingsSnapshot(ctx context.Context, seasonID int64) (dbgen.StandingsSnapshot, error)
	DeleteStandingsSnapshotsBefore(ctx context.Context, arg dbgen.DeleteStandingsSnapshotsBeforeParams) (int64, error)
}

// StandingsQueries is the subset of dbgen.Queries the service reads and writes.
type StandingsQueries interface {
	TeamSource
	GameSource
	SnapshotStore
}

type StandingsRecorder interface {
	RecordStandings(duration time.Duration, err error)
}

type Snapshot struct {
	SeasonID  int64          `json:"seasonId"`
	TakenAt   time.Time      `json:"takenAt"`
	Standings []TeamStanding `json:"standings"`
}

type StandingsService struct {
	queries  StandingsQueries
	recorder StandingsRecorder
}

func NewStandingsService(queries StandingsQueries, recorder StandingsRecorder) *StandingsService {
	return &StandingsService{queries: queries, recorder: recorder}
}

// SeasonStandings loads a season's teams and games and ranks them.
func (s *StandingsService) SeasonStandings(ctx context.Context, seasonID int64) ([]TeamStanding, error) {
	if s == nil || s.queries == nil {
		return nil, errors.New("queries are required")
	}
	if seasonID <= 0 {
		return nil, errors.New("season ID is required")
	}

	start := time.Now()
	standings, err := s.load(ctx, seasonID)
	if s.recorder != nil {
		s.recorder.RecordStandings(time.Since(start), err)
	}
	return standings, err
}

func (s *StandingsService) load(ctx context.Context, seasonID int64) ([]TeamStanding, error) {
	teamRows, err := s.queries.ListSeasonTeams(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}
	gameRows, err := s.queries.ListSeasonGames(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season games: %w", err)
	}

	teams := make([]Team, 0, len(teamRows))
	for _, row := range teamRows {
		teams = append(teams, TeamFromRow(row))
	}
	games := make([]Game, 0, len(gameRows))
	for _, row := range gameRows {
		games = append(games, GameFromRow(row))
	}
	return ComputeStandings(teams, games), nil
}

// TakeSnapshot stores the current standings of a season as of at.
func (s *StandingsService) TakeSnapshot(ctx context.Context, seasonID int64, at time.Time) (Snapshot, error) {
	standings, err := s.SeasonStandings(ctx, seasonID)
	if err != nil {
		return Snapshot{}, err
	}
	payload, err := json.Marshal(standings)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode standings: %w", err)
	}
	row, err := s.queries.InsertStandingsSnapshot(ctx, dbgen.InsertStandingsSnapshotParams{
		SeasonID: seasonID,
		TakenAt:  at.UTC(),
		Payload:  string(payload),
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert standings snapshot: %w", err)
	}
	return Snapshot{SeasonID: row.SeasonID, TakenAt: row.TakenAt, Standings: standings}, nil
}

// LatestSnapshot returns sql.ErrNoRows (wrapped) when the season has none.
func (s *StandingsService) LatestSnapshot(ctx context.Context, seasonID int64) (Snapshot, error) {
	row, err := s.queries.GetLatestStandingsSnapshot(ctx, seasonID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get latest standings snapshot: %w", err)
	}
	var standings []TeamStanding
	if err := json.Unmarshal([]byte(row.Payload), &standings); err != nil {
		return Snapshot{}, fmt.Errorf("decode standings snapshot %d: %w", row.ID, err)
	}
	return Snapshot{SeasonID: row.SeasonID, TakenAt: row.TakenAt, Standings: standings}, nil
}

func (s *StandingsService) PruneSnapshots(ctx context.Context, seasonID int64, before time.Time) (int64, error) {
	removed, err := s.queries.DeleteStandingsSnapshotsBefore(ctx, dbgen.DeleteStandingsSnapshotsBeforeParams{
		SeasonID: seasonID,
		TakenAt:  before.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("prune standings snapshots: %w", err)
	}
	return removed, nil
}

// RankMovement compares current standings with a snapshot: positive values
// mean the team climbed. Teams absent from the snapshot are omitted.
func RankMovement(current []TeamStanding, previous []TeamStanding) map[int64]int {
	before := make(map[int64]int, len(previous))
	for idx, standing := range previous {
		before[standing.TeamID] = idx
	}
	movement := make(map[int64]int, len(current))
	for idx, standing := range current {
		if prevIdx, ok := before[standing.TeamID]; ok {
			movement[standing.TeamID] = prevIdx - idx
		}
	}
	return movement
}

func TeamFromRow(row dbgen.Team) Team {
	return Team{ID: row.ID, Name: row.Name, LogoURL: row.LogoUrl}
}

// GameFromRow maps NULL scores to 0.
func GameFromRow(row dbgen.Game) Game {
	game := Game{
		ID:          row.ID,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		IsCompleted: row.IsCompleted,
		GameDate:    row.GameDate,
	}
	if row.HomeScore.Valid && row.HomeScore.Int64 > 0 {
		game.HomeScore = int(row.HomeScore.Int64)
	}
	if row.AwayScore.Valid && row.AwayScore.Int64 > 0 {
		game.AwayScore = int(row.AwayScore.Int64)
	}
	return game
}
