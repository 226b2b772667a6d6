package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/db/dbgen"
	"github.com/codr1/leaguehub/internal/leagues"
)

const (
	StandingsSnapshotJob  = "standings_snapshot"
	standingsJobTimeout   = 2 * time.Minute
	defaultRetentionDays  = 0
	snapshotRetentionUnit = 24 * time.Hour
)

type SeasonLister interface {
	ListActiveSeasons(ctx context.Context) ([]dbgen.Season, error)
}

type Snapshotter interface {
	TakeSnapshot(ctx context.Context, seasonID int64, at time.Time) (leagues.Snapshot, error)
	PruneSnapshots(ctx context.Context, seasonID int64, before time.Time) (int64, error)
}

type JobRecorder interface {
	RecordJobRun(job string, err error)
}

type StandingsJob struct {
	Seasons   SeasonLister
	Standings Snapshotter
	Recorder  JobRecorder
	// RetentionDays of 0 keeps every snapshot.
	RetentionDays int
	Now           func() time.Time
}

// RegisterStandingsJobs snapshots every active season on cronExpr.
func RegisterStandingsJobs(svc *Service, cronExpr string, job StandingsJob) error {
	if job.Seasons == nil || job.Standings == nil {
		return fmt.Errorf("standings jobs require seasons and standings")
	}

	jobLogger := log.With().
		Str("component", "standings_snapshot_job").
		Str("job_name", StandingsSnapshotJob).
		Str("cron", cronExpr).
		Logger()

	_, err := svc.AddJob(StandingsSnapshotJob, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), standingsJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if err := job.Run(ctx); err != nil {
			jobLogger.Error().Err(err).Msg("Standings snapshot job failed")
		}
	})
	return err
}

// Run snapshots each active season once. A failing season does not stop the
// others; their errors are joined.
func (j StandingsJob) Run(ctx context.Context) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	logger := log.Ctx(ctx)
	at := now().UTC()

	seasons, err := j.Seasons.ListActiveSeasons(ctx)
	if err != nil {
		err = fmt.Errorf("list active seasons: %w", err)
		j.record(err)
		return err
	}

	var errs []error
	taken := 0
	for _, season := range seasons {
		seasonLogger := logger.With().Int64("season_id", season.ID).Logger()

		snapshot, err := j.Standings.TakeSnapshot(ctx, season.ID, at)
		if err != nil {
			seasonLogger.Error().Err(err).Msg("Failed to snapshot standings")
			errs = append(errs, fmt.Errorf("season %d: %w", season.ID, err))
			continue
		}
		taken++
		seasonLogger.Debug().Int("teams", len(snapshot.Standings)).Msg("Standings snapshot stored")

		if j.RetentionDays > defaultRetentionDays {
			cutoff := at.Add(-time.Duration(j.RetentionDays) * snapshotRetentionUnit)
			removed, err := j.Standings.PruneSnapshots(ctx, season.ID, cutoff)
			if err != nil {
				seasonLogger.Error().Err(err).Msg("Failed to prune standings snapshots")
				errs = append(errs, fmt.Errorf("season %d prune: %w", season.ID, err))
				continue
			}
			if removed > 0 {
				seasonLogger.Info().Int64("removed", removed).Msg("Pruned standings snapshots")
			}
		}
	}

	logger.Info().Int("seasons", len(seasons)).Int("snapshots", taken).Msg("Standings snapshot job finished")
	err = errors.Join(errs...)
	j.record(err)
	return err
}

func (j StandingsJob) record(err error) {
	if j.Recorder != nil {
		j.Recorder.RecordJobRun(StandingsSnapshotJob, err)
	}
}
