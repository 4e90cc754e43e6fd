package models

import "time"

// Job is a pipeline identified by its full hierarchical name.
// The name is the key everywhere: renaming a job rewrites the
// name column on every table referencing it, so no surrogate
// identity can ever desynchronize from the orchestrator's view.
type Job struct {
	FullName  string    `gorm:"primaryKey" json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Build is one numbered run of a job. The number is assigned by
// the orchestrator and increases monotonically per job. Completion
// metadata stays NULL until UpdateBuildOnCompletion.
type Build struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	JobFullName   string         `gorm:"index;uniqueIndex:idx_build_key;not null" json:"job_full_name"`
	Number        int            `gorm:"uniqueIndex:idx_build_key;not null" json:"number"`
	ResultOrdinal *int           `json:"result_ordinal,omitempty"`
	StartTime     *time.Time     `json:"start_time,omitempty"`
	Duration      *time.Duration `json:"duration,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
