// Package janitor prunes expired task output directories on a schedule.
package janitor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"storyreel/config"
)

// Janitor removes task directories older than the retention window.
type Janitor struct {
	outputDir string
	retention time.Duration
	cron      *cron.Cron
	cronID    cron.EntryID
}

// New creates a Janitor over the given output root.
func New(outputDir string, retention time.Duration) *Janitor {
	return &Janitor{
		outputDir: outputDir,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules the cleanup job.
func (j *Janitor) Start(schedule string) error {
	id, err := j.cron.AddFunc(schedule, func() {
		removed, err := j.PruneOnce()
		if err != nil {
			log.Printf("Janitor run error: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Janitor removed %d expired task dir(s)", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	j.cronID = id
	j.cron.Start()
	log.Printf("Janitor started with schedule: %s (retention %s)", schedule, j.retention)
	return nil
}

// Stop halts the schedule. Running jobs finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// PruneOnce removes expired task directories and returns how many went.
// A missing output root is not an error; nothing has been rendered yet.
func (j *Janitor) PruneOnce() (int, error) {
	entries, err := os.ReadDir(j.outputDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}

	cutoff := time.Now().Add(-j.retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(j.outputDir, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("Janitor failed to remove %s: %v", dir, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// FromEnv builds a Janitor over the configured output root.
func FromEnv() *Janitor {
	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = config.OutputDir
	}
	return New(outputDir, config.TaskRetention)
}
