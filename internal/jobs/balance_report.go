// Package jobs contains the scheduled background jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/budgetflow/backend/internal/importer"
	"github.com/budgetflow/backend/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrRefreshRunning = errors.New("a balance report refresh is already running")

// ReportFetcher downloads the balance report spreadsheet.
type ReportFetcher interface {
	FetchBalanceReport(ctx context.Context, controlBudget, period string) ([]byte, error)
}

// BalanceReport refreshes the stored balance report from the ERP.
type BalanceReport struct {
	db            *gorm.DB
	fetcher       ReportFetcher
	controlBudget string
	now           func() time.Time
	loc           *time.Location

	mu sync.Mutex
}

func NewBalanceReport(db *gorm.DB, fetcher ReportFetcher, controlBudget string) *BalanceReport {
	return &BalanceReport{
		db:            db,
		fetcher:       fetcher,
		controlBudget: controlBudget,
		now:           time.Now,
		loc:           time.UTC,
	}
}

// Period returns the ERP period name for t, e.g. "Jan-26".
func Period(t time.Time) string {
	return t.Format("Jan-06")
}

// Run replaces the stored report with the report of the current period
// and returns the number of rows stored. Concurrent runs are refused.
//
// The period is taken in the time zone of the schedule, UTC if the job
// was never scheduled.
func (j *BalanceReport) Run(ctx context.Context) (int, error) {
	if !j.mu.TryLock() {
		return 0, ErrRefreshRunning
	}
	defer j.mu.Unlock()

	period := Period(j.now().In(j.loc))

	data, err := j.fetcher.FetchBalanceReport(ctx, j.controlBudget, period)
	if err != nil {
		return 0, fmt.Errorf("could not fetch balance report for %s: %w", period, err)
	}

	rows, err := importer.ParseBalanceReport(data)
	if err != nil {
		return 0, err
	}

	if err := models.ReplaceBalanceReport(j.db.WithContext(ctx), rows); err != nil {
		return 0, err
	}

	log.Info().Str("period", period).Int("rows", len(rows)).Msg("balance report refreshed")
	return len(rows), nil
}

// Schedule runs the job on the cron schedule in the given time zone. The
// returned scheduler is already started, stop it on shutdown.
func Schedule(job *BalanceReport, schedule, timeZone string) (*cron.Cron, error) {
	loc := time.UTC
	if timeZone != "" {
		var err error
		loc, err = time.LoadLocation(timeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone for the balance report refresh: %w", err)
		}
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(schedule, func() {
		if _, err := job.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("scheduled balance report refresh failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid balance report schedule %q: %w", schedule, err)
	}

	job.mu.Lock()
	job.loc = loc
	job.mu.Unlock()

	c.Start()
	log.Info().Str("schedule", schedule).Str("location", loc.String()).Msg("balance report refresh scheduled")
	return c, nil
}
