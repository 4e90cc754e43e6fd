package models

import "time"

// Dependency records that a build consumed a Maven coordinate.
// Classifier is a pointer because absence is meaningful in
// matching: "no classifier" is not the empty string.
type Dependency struct {
	ID                     uint      `gorm:"primaryKey" json:"-"`
	JobFullName            string    `gorm:"index:idx_dependency_build;not null" json:"job_full_name"`
	BuildNumber            int       `gorm:"index:idx_dependency_build;not null" json:"build_number"`
	GroupID                string    `gorm:"index:idx_dependency_coord;not null" json:"group_id"`
	ArtifactID             string    `gorm:"index:idx_dependency_coord;not null" json:"artifact_id"`
	Version                string    `gorm:"not null" json:"version"`
	Type                   string    `gorm:"not null" json:"type"`
	Classifier             *string   `json:"classifier,omitempty"`
	Scope                  string    `json:"scope"`
	IgnoreUpstreamTriggers bool      `gorm:"not null" json:"ignore_upstream_triggers"`
	CreatedAt              time.Time `json:"created_at"`
}

// AsMavenDependency flattens the row into the read API value type.
func (d *Dependency) AsMavenDependency() MavenDependency {
	dep := MavenDependency{
		MavenArtifact: MavenArtifact{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
			Type:       d.Type,
		},
		Scope:                  d.Scope,
		IgnoreUpstreamTriggers: d.IgnoreUpstreamTriggers,
	}
	if d.Classifier != nil {
		dep.Classifier = *d.Classifier
	}
	return dep
}

// ParentProject records the POM parent of a build. The parent
// relation carries group/artifact/version only; it is unioned
// with dependencies when computing upstream reachability.
type ParentProject struct {
	ID                     uint      `gorm:"primaryKey" json:"-"`
	JobFullName            string    `gorm:"index:idx_parent_build;not null" json:"job_full_name"`
	BuildNumber            int       `gorm:"index:idx_parent_build;not null" json:"build_number"`
	GroupID                string    `gorm:"not null" json:"group_id"`
	ArtifactID             string    `gorm:"not null" json:"artifact_id"`
	Version                string    `gorm:"not null" json:"version"`
	IgnoreUpstreamTriggers bool      `gorm:"not null" json:"ignore_upstream_triggers"`
	CreatedAt              time.Time `json:"created_at"`
}
