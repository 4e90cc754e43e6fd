package depgraph

import (
	"sort"

	"github.com/cobalt-cloud/mavengraph/internal/models"
)

// consumersOf returns the distinct names of jobs with a build that
// consumes the coordinate, through a dependency or a parent-pom
// edge. A dependency matches on (group, artifact, type, classifier)
// with its version equal to any of the supplied version forms; a
// parent matches on (group, artifact, version) only, since the
// parent relation carries no type or classifier. Edges flagged
// ignore-upstream-triggers never participate: this query feeds
// trigger decisions.
func (s *storeService) consumersOf(groupID, artifactID, artifactType string, classifier *string, versions []string) ([]string, error) {
	jobs := []string{}
	q := s.db.WithContext(s.ctx).Model(&models.Dependency{}).
		Where(
			"group_id = ? AND artifact_id = ? AND type = ? AND version IN ? AND ignore_upstream_triggers = ?",
			groupID, artifactID, artifactType, versions, false,
		)
	q = whereClassifier(q, classifier)
	if err := q.Distinct().Pluck("job_full_name", &jobs).Error; err != nil {
		return nil, storageErr(err, "downstream dependency match")
	}

	parents := []string{}
	err := s.db.WithContext(s.ctx).Model(&models.ParentProject{}).
		Where(
			"group_id = ? AND artifact_id = ? AND version IN ? AND ignore_upstream_triggers = ?",
			groupID, artifactID, versions, false,
		).
		Distinct().Pluck("job_full_name", &parents).Error
	if err != nil {
		return nil, storageErr(err, "downstream parent match")
	}

	seen := make(map[string]struct{}, len(jobs))
	merged := make([]string, 0, len(jobs)+len(parents))
	for _, lists := range [][]string{jobs, parents} {
		for _, name := range lists {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}

	sort.Strings(merged)
	return merged, nil
}

// versionForms returns the distinct version forms a consumer may
// be pinned to: the recorded (possibly expanded snapshot) version
// and the declared base version.
func versionForms(version string, baseVersion *string) []string {
	if baseVersion == nil || *baseVersion == "" || *baseVersion == version {
		return []string{version}
	}
	return []string{version, *baseVersion}
}

// ListDownstreamJobsByArtifact maps each artifact the build
// generated to the sorted names of jobs consuming it. The
// producing job is never its own downstream.
func (s *storeService) ListDownstreamJobsByArtifact(jobFullName string, buildNumber int) (map[models.MavenArtifact][]string, error) {
	rows, err := s.generatedArtifactRows(jobFullName, buildNumber, true)
	if err != nil {
		return nil, err
	}

	downstream := make(map[models.MavenArtifact][]string, len(rows))
	for i := range rows {
		consumers, err := s.consumersOf(
			rows[i].GroupID,
			rows[i].ArtifactID,
			rows[i].Type,
			rows[i].Classifier,
			versionForms(rows[i].Version, rows[i].BaseVersion),
		)
		if err != nil {
			return nil, err
		}

		filtered := consumers[:0]
		for _, name := range consumers {
			if name != jobFullName {
				filtered = append(filtered, name)
			}
		}

		downstream[rows[i].AsMavenArtifact()] = filtered
	}

	return downstream, nil
}

// ListDownstreamJobs returns the downstream job names only.
//
// Deprecated: use ListDownstreamJobsByArtifact. This is a
// narrowing view over its result, not a separate query path.
func (s *storeService) ListDownstreamJobs(jobFullName string, buildNumber int) ([]string, error) {
	byArtifact, err := s.ListDownstreamJobsByArtifact(jobFullName, buildNumber)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	names := []string{}
	for _, consumers := range byArtifact {
		for _, name := range consumers {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// ListDownstreamJobsByCoordinate returns the sorted names of jobs
// consuming the given coordinate, matching against either version
// form when a base version is supplied.
func (s *storeService) ListDownstreamJobsByCoordinate(groupID, artifactID, version string, baseVersion *string, artifactType string, classifier *string) ([]string, error) {
	if err := requireFields(
		"groupId", groupID,
		"artifactId", artifactID,
		"version", version,
		"type", artifactType,
	); err != nil {
		return nil, err
	}

	return s.consumersOf(groupID, artifactID, artifactType, classifier, versionForms(version, baseVersion))
}

// ListDownstreamJobsByCoordinateNoClassifier matches consumers
// that declared no classifier.
func (s *storeService) ListDownstreamJobsByCoordinateNoClassifier(groupID, artifactID, version string, baseVersion *string, artifactType string) ([]string, error) {
	return s.ListDownstreamJobsByCoordinate(groupID, artifactID, version, baseVersion, artifactType, nil)
}
