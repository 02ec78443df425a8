package journal

import (
	"context"
	"fmt"

	"github.com/SheepYY039/snipeit-netbox/feature/sync"

	"gorm.io/gorm"
)

// Recorder persists sync pass outcomes to the journal database.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder migrates the journal tables and returns a Recorder.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&Run{}, &StageRecord{}); err != nil {
		return nil, fmt.Errorf("migrating journal tables: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record stores the outcome of one pass, stages included. A pass that
// failed mid-way is recorded with the stages that did run and the error.
func (r *Recorder) Record(ctx context.Context, report *sync.Report, runErr error) error {
	run := Run{
		ID:           report.RunID,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		AllowUpdates: report.AllowUpdates,
		AllowLinking: report.AllowLinking,
		Succeeded:    runErr == nil,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	for _, stage := range report.Stages {
		run.Stages = append(run.Stages, StageRecord{
			Stage:   stage.Stage,
			Total:   stage.Total,
			Created: stage.Created,
			Linked:  stage.Linked,
			Updated: stage.Updated,
			Skipped: stage.Skipped,
			Errors:  stage.Errors,
		})
	}
	return r.db.WithContext(ctx).Create(&run).Error
}

// LastRuns returns the most recent runs, newest first, stages included.
func (r *Recorder) LastRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := r.db.WithContext(ctx).
		Preload("Stages").
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
