package models

import (
	"fmt"
	"strings"
	"time"
)

// GeneratedArtifact records that a build produced a Maven
// coordinate. Version is the expanded snapshot form when the
// artifact was deployed (e.g. "1.1-20170808.155524-66"),
// BaseVersion the declared form (e.g. "1.1-SNAPSHOT"); downstream
// matching works against either. RepositoryURL is NULL when the
// artifact was built but never deployed.
type GeneratedArtifact struct {
	ID                     uint      `gorm:"primaryKey" json:"-"`
	JobFullName            string    `gorm:"index:idx_artifact_build;not null" json:"job_full_name"`
	BuildNumber            int       `gorm:"index:idx_artifact_build;not null" json:"build_number"`
	GroupID                string    `gorm:"index:idx_artifact_coord;not null" json:"group_id"`
	ArtifactID             string    `gorm:"index:idx_artifact_coord;not null" json:"artifact_id"`
	Version                string    `gorm:"not null" json:"version"`
	BaseVersion            *string   `json:"base_version,omitempty"`
	Type                   string    `gorm:"not null" json:"type"`
	Extension              string    `json:"extension"`
	Classifier             *string   `json:"classifier,omitempty"`
	RepositoryURL          *string   `json:"repository_url,omitempty"`
	SkipDownstreamTriggers bool      `gorm:"not null" json:"skip_downstream_triggers"`
	CreatedAt              time.Time `json:"created_at"`
}

// AsMavenArtifact flattens the row into the read API value type.
func (a *GeneratedArtifact) AsMavenArtifact() MavenArtifact {
	artifact := MavenArtifact{
		GroupID:                a.GroupID,
		ArtifactID:             a.ArtifactID,
		Version:                a.Version,
		Type:                   a.Type,
		Extension:              a.Extension,
		SkipDownstreamTriggers: a.SkipDownstreamTriggers,
	}
	if a.BaseVersion != nil {
		artifact.BaseVersion = *a.BaseVersion
	}
	if a.Classifier != nil {
		artifact.Classifier = *a.Classifier
	}
	if a.RepositoryURL != nil {
		artifact.RepositoryURL = *a.RepositoryURL
	}
	return artifact
}

// MavenArtifact is the value type returned by the read API. Maven
// forbids an empty non-absent classifier, so an empty Classifier
// means "none". The struct is comparable and usable as a map key.
type MavenArtifact struct {
	GroupID                string `json:"group_id"`
	ArtifactID             string `json:"artifact_id"`
	Version                string `json:"version"`
	BaseVersion            string `json:"base_version,omitempty"`
	Type                   string `json:"type"`
	Extension              string `json:"extension,omitempty"`
	Classifier             string `json:"classifier,omitempty"`
	RepositoryURL          string `json:"repository_url,omitempty"`
	SkipDownstreamTriggers bool   `json:"skip_downstream_triggers,omitempty"`
}

// Short renders the groupId:artifactId:version form.
func (a MavenArtifact) Short() string {
	return fmt.Sprintf("%s:%s:%s", a.GroupID, a.ArtifactID, a.Version)
}

func (a MavenArtifact) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s:%s:%s", a.GroupID, a.ArtifactID, a.Type, a.Version)
	if a.Classifier != "" {
		fmt.Fprintf(&b, ":%s", a.Classifier)
	}
	return b.String()
}

// Compare defines the total order used by all sorted listings:
// groupId, artifactId, version, classifier, then type.
func (a MavenArtifact) Compare(other MavenArtifact) int {
	if c := strings.Compare(a.GroupID, other.GroupID); c != 0 {
		return c
	}
	if c := strings.Compare(a.ArtifactID, other.ArtifactID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Version, other.Version); c != 0 {
		return c
	}
	if c := strings.Compare(a.Classifier, other.Classifier); c != 0 {
		return c
	}
	return strings.Compare(a.Type, other.Type)
}

// MavenDependency is a consumed coordinate plus the consumption
// metadata recorded with it.
type MavenDependency struct {
	MavenArtifact
	Scope                  string `json:"scope"`
	IgnoreUpstreamTriggers bool   `json:"ignore_upstream_triggers"`
}
