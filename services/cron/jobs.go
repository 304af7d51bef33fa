package cron

import (
	"log"
)

// RefreshDataset re-checks both tables against disk. A missing programs
// table is expected in institution-only deployments and logged, not fatal.
func (m *CronManager) RefreshDataset() {
	uniErr, programErr := m.store.Refresh()
	if uniErr != nil {
		log.Printf("[Cron] universities table unavailable: %v", uniErr)
	}
	if programErr != nil {
		log.Printf("[Cron] programs table unavailable: %v", programErr)
	}
}

// ReportDatasetStats logs the last-load stats per table, including how
// many rows were skipped or dropped during normalization.
func (m *CronManager) ReportDatasetStats() {
	for table, stats := range m.store.TableStats() {
		log.Printf("[Cron] %s: rows=%d skipped=%d dropped=%d duplicates=%d",
			table, stats.Rows, stats.Skipped, stats.Dropped, stats.Duplicates)
	}
}
