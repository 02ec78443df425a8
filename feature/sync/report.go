package sync

import "time"

// StageStats counts the outcomes of one entity stage.
type StageStats struct {
	// Stage is the stage name (tenants, manufacturers, ...).
	Stage string `json:"stage"`
	// Total is the number of source records the stage examined.
	Total int `json:"total"`
	// Created counts new target records.
	Created int `json:"created"`
	// Linked counts existing records that got the linkage key stamped.
	Linked int `json:"linked"`
	// Updated counts records that received a field diff.
	Updated int `json:"updated"`
	// Skipped counts records left untouched (clean, or gated by flags).
	Skipped int `json:"skipped"`
	// Errors counts per-item problems that were logged and skipped over.
	Errors int `json:"errors"`
}

// Report is the outcome of one full sync pass.
type Report struct {
	RunID        string       `json:"run_id"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	AllowUpdates bool         `json:"allow_updates"`
	AllowLinking bool         `json:"allow_linking"`
	Stages       []StageStats `json:"stages"`
}

// Writes reports whether the pass performed any write at all.
func (r *Report) Writes() bool {
	for _, s := range r.Stages {
		if s.Created > 0 || s.Linked > 0 || s.Updated > 0 {
			return true
		}
	}
	return false
}
