package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/bosala-platform/bosala-api/dataset"
)

// CronManager manages all scheduled jobs.
type CronManager struct {
	cron  *cron.Cron
	store *dataset.Store
}

// NewCronManager creates a new cron manager over the dataset store.
func NewCronManager(store *dataset.Store) *CronManager {
	// seconds precision, matching the schedule specs below
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:  c,
		store: store,
	}
}

// Start registers and starts all jobs.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all jobs and waits for running ones to finish.
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all jobs with their schedules.
func (m *CronManager) registerJobs() error {
	// Every 5 minutes: re-stat the dataset files and reload whichever
	// changed, so the first request after an update doesn't pay the parse.
	_, err := m.cron.AddFunc("0 */5 * * * *", func() {
		m.logJobStart("refresh_dataset")
		m.RefreshDataset()
	})
	if err != nil {
		return err
	}

	// Hourly: report table stats for diagnostics.
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("report_dataset_stats")
		m.ReportDatasetStats()
	})
	return err
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("[Cron] Running job: %s", name)
}
