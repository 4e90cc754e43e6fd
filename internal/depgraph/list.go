package depgraph

import (
	"sort"

	"github.com/cobalt-cloud/mavengraph/internal/models"
)

// ListDependencies returns the coordinates consumed by the given
// build, sorted. Absence of data is an empty result, never an
// error.
func (s *storeService) ListDependencies(jobFullName string, buildNumber int) ([]models.MavenDependency, error) {
	rows := []models.Dependency{}
	err := s.db.WithContext(s.ctx).
		Where("job_full_name = ? AND build_number = ?", jobFullName, buildNumber).
		Find(&rows).Error
	if err != nil {
		return nil, storageErr(err, "list dependencies")
	}

	dependencies := make([]models.MavenDependency, 0, len(rows))
	for i := range rows {
		dependencies = append(dependencies, rows[i].AsMavenDependency())
	}

	sort.Slice(dependencies, func(i, j int) bool {
		return dependencies[i].MavenArtifact.Compare(dependencies[j].MavenArtifact) < 0
	})

	return dependencies, nil
}

// GetGeneratedArtifacts returns the coordinates produced by the
// given build, sorted. When the same coordinate was recorded more
// than once (e.g. re-deployed with a fresh expanded version) only
// the newest row is listed; older rows stay for audit.
func (s *storeService) GetGeneratedArtifacts(jobFullName string, buildNumber int) ([]models.MavenArtifact, error) {
	rows, err := s.generatedArtifactRows(jobFullName, buildNumber, false)
	if err != nil {
		return nil, err
	}

	artifacts := make([]models.MavenArtifact, 0, len(rows))
	for i := range rows {
		artifacts = append(artifacts, rows[i].AsMavenArtifact())
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Compare(artifacts[j]) < 0
	})

	return artifacts, nil
}

// generatedArtifactRows loads a build's generated artifacts,
// collapsed to the newest row per coordinate. With triggersOnly
// set, artifacts flagged skip-downstream-triggers are excluded.
func (s *storeService) generatedArtifactRows(jobFullName string, buildNumber int, triggersOnly bool) ([]models.GeneratedArtifact, error) {
	rows := []models.GeneratedArtifact{}
	q := s.db.WithContext(s.ctx).
		Where("job_full_name = ? AND build_number = ?", jobFullName, buildNumber).
		Order("id")
	if triggersOnly {
		q = q.Where("skip_downstream_triggers = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageErr(err, "list generated artifacts")
	}

	latest := map[string]int{}
	order := []string{}
	for i := range rows {
		base, classifier := "\x01", "\x01"
		if rows[i].BaseVersion != nil {
			base = *rows[i].BaseVersion
		}
		if rows[i].Classifier != nil {
			classifier = *rows[i].Classifier
		}
		k := rows[i].GroupID + "\x00" + rows[i].ArtifactID + "\x00" + rows[i].Type + "\x00" + base + "\x00" + classifier
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}

	collapsed := make([]models.GeneratedArtifact, 0, len(order))
	for _, k := range order {
		collapsed = append(collapsed, rows[latest[k]])
	}

	return collapsed, nil
}
