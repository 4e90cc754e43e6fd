package models

import "time"

// UpstreamCause records that one build triggered another, as
// observed by the orchestrator. It is bookkeeping independent of
// artifact matching and never feeds reachability.
type UpstreamCause struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	UpstreamJobName       string    `gorm:"index:idx_cause_up;not null" json:"upstream_job_name"`
	UpstreamBuildNumber   int       `gorm:"index:idx_cause_up;not null" json:"upstream_build_number"`
	DownstreamJobName     string    `gorm:"index:idx_cause_down;not null" json:"downstream_job_name"`
	DownstreamBuildNumber int       `gorm:"index:idx_cause_down;not null" json:"downstream_build_number"`
	CreatedAt             time.Time `json:"created_at"`
}
