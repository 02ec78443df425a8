package journal

import "time"

// Run is one persisted sync pass.
type Run struct {
	ID           string `gorm:"primaryKey;size:36"`
	StartedAt    time.Time
	FinishedAt   time.Time
	AllowUpdates bool
	AllowLinking bool
	Succeeded    bool
	Error        string        `gorm:"size:1024"`
	Stages       []StageRecord `gorm:"foreignKey:RunID"`
}

func (Run) TableName() string { return "sync_runs" }

// StageRecord is the persisted outcome of one stage of a run.
type StageRecord struct {
	ID      uint   `gorm:"primaryKey"`
	RunID   string `gorm:"size:36;index"`
	Stage   string `gorm:"size:64"`
	Total   int
	Created int
	Linked  int
	Updated int
	Skipped int
	Errors  int
}

func (StageRecord) TableName() string { return "sync_run_stages" }
