package depgraph

import (
	"database/sql"

	"github.com/cobalt-cloud/mavengraph/internal/models"
)

// directUpstream resolves, for every coordinate the build consumes
// (dependencies and parent poms, minus edges flagged
// ignore-upstream-triggers), the job that produced it and that
// job's most recent producing build number. The queried job is
// never its own upstream, even through another build of itself.
func (s *storeService) directUpstream(jobFullName string, buildNumber int) (map[string]int, error) {
	dependencies := []models.Dependency{}
	err := s.db.WithContext(s.ctx).
		Where(
			"job_full_name = ? AND build_number = ? AND ignore_upstream_triggers = ?",
			jobFullName, buildNumber, false,
		).
		Find(&dependencies).Error
	if err != nil {
		return nil, storageErr(err, "load dependencies")
	}

	parents := []models.ParentProject{}
	err = s.db.WithContext(s.ctx).
		Where(
			"job_full_name = ? AND build_number = ? AND ignore_upstream_triggers = ?",
			jobFullName, buildNumber, false,
		).
		Find(&parents).Error
	if err != nil {
		return nil, storageErr(err, "load parent projects")
	}

	upstreams := map[string]int{}

	for i := range dependencies {
		d := &dependencies[i]
		producers := []models.GeneratedArtifact{}
		q := s.db.WithContext(s.ctx).
			Where(
				"group_id = ? AND artifact_id = ? AND type = ? AND (version = ? OR base_version = ?) AND skip_downstream_triggers = ? AND job_full_name <> ?",
				d.GroupID, d.ArtifactID, d.Type, d.Version, d.Version, false, jobFullName,
			)
		q = whereClassifier(q, d.Classifier)
		if err := q.Find(&producers).Error; err != nil {
			return nil, storageErr(err, "match producers")
		}
		foldProducers(upstreams, producers)
	}

	for i := range parents {
		p := &parents[i]
		producers := []models.GeneratedArtifact{}
		err := s.db.WithContext(s.ctx).
			Where(
				"group_id = ? AND artifact_id = ? AND (version = ? OR base_version = ?) AND skip_downstream_triggers = ? AND job_full_name <> ?",
				p.GroupID, p.ArtifactID, p.Version, p.Version, false, jobFullName,
			).
			Find(&producers).Error
		if err != nil {
			return nil, storageErr(err, "match parent producers")
		}
		foldProducers(upstreams, producers)
	}

	return upstreams, nil
}

// foldProducers accumulates producing jobs into the upstream set,
// keeping the highest build number per job: the most recent
// production of a coordinate wins.
func foldProducers(upstreams map[string]int, producers []models.GeneratedArtifact) {
	for i := range producers {
		name, number := producers[i].JobFullName, producers[i].BuildNumber
		if existing, ok := upstreams[name]; !ok || number > existing {
			upstreams[name] = number
		}
	}
}

// latestBuildNumber resolves a job's representative build for the
// transitive walk. The policy is "most recent recorded build"; if
// the orchestrator's notion ever changes (e.g. most recent
// successful), this is the single place to change it.
func (s *storeService) latestBuildNumber(jobFullName string) (int, error) {
	var latest sql.NullInt64
	err := s.db.WithContext(s.ctx).Model(&models.Build{}).
		Where("job_full_name = ?", jobFullName).
		Select("MAX(number)").
		Scan(&latest).Error
	if err != nil {
		return 0, storageErr(err, "resolve latest build")
	}
	if !latest.Valid {
		return 0, nil
	}
	return int(latest.Int64), nil
}

// ListUpstreamJobs returns the direct upstream set of the build:
// producing job name to its most recent producing build number.
func (s *storeService) ListUpstreamJobs(jobFullName string, buildNumber int) (map[string]int, error) {
	if err := requireFields("jobFullName", jobFullName); err != nil {
		return nil, err
	}
	return s.directUpstream(jobFullName, buildNumber)
}

// ListTransitiveUpstreamJobs computes the full ancestor set of the
// build under the direct-upstream relation.
func (s *storeService) ListTransitiveUpstreamJobs(jobFullName string, buildNumber int) (map[string]int, error) {
	return s.ListTransitiveUpstreamJobsWithMemory(jobFullName, buildNumber, nil)
}

// ListTransitiveUpstreamJobsWithMemory is ListTransitiveUpstreamJobs
// with a caller-owned memory amortizing repeated computation across
// one batch of calls. The memory never changes the result.
//
// The walk is breadth-first over the job-level produced-for
// relation: each newly discovered job contributes the direct
// upstream set of its representative build, once. The visited set
// doubles as the cycle guard, so the walk terminates even on
// cyclic graphs, and first discovery wins for the recorded build
// number (closer jobs are discovered first).
func (s *storeService) ListTransitiveUpstreamJobsWithMemory(jobFullName string, buildNumber int, memory *UpstreamMemory) (map[string]int, error) {
	if err := requireFields("jobFullName", jobFullName); err != nil {
		return nil, err
	}

	direct, err := s.memoizedUpstream(jobFullName, buildNumber, memory)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]int, len(direct))
	frontier := make([]string, 0, len(direct))
	for name, number := range direct {
		if name == jobFullName {
			continue
		}
		visited[name] = number
		frontier = append(frontier, name)
	}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		number, err := s.latestBuildNumber(current)
		if err != nil {
			return nil, err
		}
		if number == 0 {
			// job vanished under a concurrent delete; its
			// contribution is empty
			continue
		}

		upstreams, err := s.memoizedUpstream(current, number, memory)
		if err != nil {
			return nil, err
		}

		for name, upstreamNumber := range upstreams {
			if name == jobFullName {
				continue
			}
			if _, seen := visited[name]; seen {
				continue
			}
			visited[name] = upstreamNumber
			frontier = append(frontier, name)
		}
	}

	return visited, nil
}

func (s *storeService) memoizedUpstream(jobFullName string, buildNumber int, memory *UpstreamMemory) (map[string]int, error) {
	if memory != nil {
		if cached, ok := memory.get(jobFullName, buildNumber); ok {
			return cached, nil
		}
	}

	upstreams, err := s.directUpstream(jobFullName, buildNumber)
	if err != nil {
		return nil, err
	}

	if memory != nil {
		memory.put(jobFullName, buildNumber, upstreams)
	}

	return upstreams, nil
}
