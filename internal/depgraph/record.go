package depgraph

import (
	"time"

	"github.com/cobalt-cloud/mavengraph/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DependencyRecord is one consumed Maven coordinate discovered in
// a build's execution trace.
type DependencyRecord struct {
	JobFullName            string
	BuildNumber            int
	GroupID                string
	ArtifactID             string
	Version                string
	Type                   string
	Scope                  string
	Classifier             *string
	IgnoreUpstreamTriggers bool
}

// ParentProjectRecord is the POM parent of a module built by a
// build. Parents carry group/artifact/version only.
type ParentProjectRecord struct {
	JobFullName            string
	BuildNumber            int
	ParentGroupID          string
	ParentArtifactID       string
	ParentVersion          string
	IgnoreUpstreamTriggers bool
}

// GeneratedArtifactRecord is one Maven coordinate produced by a
// build. Version is the expanded snapshot form when deployed;
// BaseVersion the declared form, defaulted to Version when the
// artifact was not deployed. RepositoryURL is nil in that case.
type GeneratedArtifactRecord struct {
	JobFullName            string
	BuildNumber            int
	GroupID                string
	ArtifactID             string
	Version                string
	BaseVersion            string
	Type                   string
	Extension              string
	Classifier             *string
	RepositoryURL          *string
	SkipDownstreamTriggers bool
}

// ensureBuild creates the owning job and build rows if absent.
// ON CONFLICT DO NOTHING resolves concurrent create-if-absent
// races deterministically: exactly one row survives.
func ensureBuild(tx *gorm.DB, jobFullName string, buildNumber int) error {
	job := models.Job{FullName: jobFullName}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&job).Error; err != nil {
		return storageErr(err, "upsert job")
	}

	build := models.Build{JobFullName: jobFullName, Number: buildNumber}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&build).Error; err != nil {
		return storageErr(err, "upsert build")
	}

	return nil
}

// whereClassifier appends a NULL-safe classifier predicate:
// absence of a classifier only matches absence.
func whereClassifier(q *gorm.DB, classifier *string) *gorm.DB {
	if classifier == nil {
		return q.Where("classifier IS NULL")
	}
	return q.Where("classifier = ?", *classifier)
}

func (s *storeService) RecordDependency(rec *DependencyRecord) error {
	if err := requireFields(
		"jobFullName", rec.JobFullName,
		"groupId", rec.GroupID,
		"artifactId", rec.ArtifactID,
		"version", rec.Version,
		"type", rec.Type,
	); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBuild(tx, rec.JobFullName, rec.BuildNumber); err != nil {
			return err
		}

		q := tx.Model(&models.Dependency{}).Where(
			"job_full_name = ? AND build_number = ? AND group_id = ? AND artifact_id = ? AND version = ? AND type = ?",
			rec.JobFullName, rec.BuildNumber, rec.GroupID, rec.ArtifactID, rec.Version, rec.Type,
		)
		q = whereClassifier(q, rec.Classifier)

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return storageErr(err, "dependency lookup")
		}
		if count > 0 {
			return nil
		}

		return storageErr(tx.Create(&models.Dependency{
			JobFullName:            rec.JobFullName,
			BuildNumber:            rec.BuildNumber,
			GroupID:                rec.GroupID,
			ArtifactID:             rec.ArtifactID,
			Version:                rec.Version,
			Type:                   rec.Type,
			Classifier:             rec.Classifier,
			Scope:                  rec.Scope,
			IgnoreUpstreamTriggers: rec.IgnoreUpstreamTriggers,
		}).Error, "record dependency")
	})
}

func (s *storeService) RecordParentProject(rec *ParentProjectRecord) error {
	if err := requireFields(
		"jobFullName", rec.JobFullName,
		"parentGroupId", rec.ParentGroupID,
		"parentArtifactId", rec.ParentArtifactID,
		"parentVersion", rec.ParentVersion,
	); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBuild(tx, rec.JobFullName, rec.BuildNumber); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.ParentProject{}).Where(
			"job_full_name = ? AND build_number = ? AND group_id = ? AND artifact_id = ? AND version = ?",
			rec.JobFullName, rec.BuildNumber, rec.ParentGroupID, rec.ParentArtifactID, rec.ParentVersion,
		).Count(&count).Error
		if err != nil {
			return storageErr(err, "parent project lookup")
		}
		if count > 0 {
			return nil
		}

		return storageErr(tx.Create(&models.ParentProject{
			JobFullName:            rec.JobFullName,
			BuildNumber:            rec.BuildNumber,
			GroupID:                rec.ParentGroupID,
			ArtifactID:             rec.ParentArtifactID,
			Version:                rec.ParentVersion,
			IgnoreUpstreamTriggers: rec.IgnoreUpstreamTriggers,
		}).Error, "record parent project")
	})
}

func (s *storeService) RecordGeneratedArtifact(rec *GeneratedArtifactRecord) error {
	if err := requireFields(
		"jobFullName", rec.JobFullName,
		"groupId", rec.GroupID,
		"artifactId", rec.ArtifactID,
		"version", rec.Version,
		"type", rec.Type,
	); err != nil {
		return err
	}

	// an artifact that was never deployed has no expanded form
	baseVersion := rec.BaseVersion
	if baseVersion == "" {
		baseVersion = rec.Version
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBuild(tx, rec.JobFullName, rec.BuildNumber); err != nil {
			return err
		}

		q := tx.Model(&models.GeneratedArtifact{}).Where(
			"job_full_name = ? AND build_number = ? AND group_id = ? AND artifact_id = ? AND version = ? AND base_version = ? AND type = ?",
			rec.JobFullName, rec.BuildNumber, rec.GroupID, rec.ArtifactID, rec.Version, baseVersion, rec.Type,
		)
		q = whereClassifier(q, rec.Classifier)

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return storageErr(err, "generated artifact lookup")
		}
		if count > 0 {
			return nil
		}

		return storageErr(tx.Create(&models.GeneratedArtifact{
			JobFullName:            rec.JobFullName,
			BuildNumber:            rec.BuildNumber,
			GroupID:                rec.GroupID,
			ArtifactID:             rec.ArtifactID,
			Version:                rec.Version,
			BaseVersion:            &baseVersion,
			Type:                   rec.Type,
			Extension:              rec.Extension,
			Classifier:             rec.Classifier,
			RepositoryURL:          rec.RepositoryURL,
			SkipDownstreamTriggers: rec.SkipDownstreamTriggers,
		}).Error, "record generated artifact")
	})
}

func (s *storeService) RecordBuildUpstreamCause(upstreamJob string, upstreamBuild int, downstreamJob string, downstreamBuild int) error {
	if err := requireFields(
		"upstreamJobName", upstreamJob,
		"downstreamJobName", downstreamJob,
	); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBuild(tx, upstreamJob, upstreamBuild); err != nil {
			return err
		}
		if err := ensureBuild(tx, downstreamJob, downstreamBuild); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.UpstreamCause{}).Where(
			"upstream_job_name = ? AND upstream_build_number = ? AND downstream_job_name = ? AND downstream_build_number = ?",
			upstreamJob, upstreamBuild, downstreamJob, downstreamBuild,
		).Count(&count).Error
		if err != nil {
			return storageErr(err, "upstream cause lookup")
		}
		if count > 0 {
			return nil
		}

		return storageErr(tx.Create(&models.UpstreamCause{
			UpstreamJobName:       upstreamJob,
			UpstreamBuildNumber:   upstreamBuild,
			DownstreamJobName:     downstreamJob,
			DownstreamBuildNumber: downstreamBuild,
		}).Error, "record upstream cause")
	})
}

// UpdateBuildOnCompletion stores the build result and timings.
// A build is recorded once at completion; the last call wins.
func (s *storeService) UpdateBuildOnCompletion(jobFullName string, buildNumber int, resultOrdinal int, startTime time.Time, duration time.Duration) error {
	if err := requireFields("jobFullName", jobFullName); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBuild(tx, jobFullName, buildNumber); err != nil {
			return err
		}

		return storageErr(tx.Model(&models.Build{}).
			Where("job_full_name = ? AND number = ?", jobFullName, buildNumber).
			Updates(map[string]interface{}{
				"result_ordinal": resultOrdinal,
				"start_time":     startTime,
				"duration":       duration,
			}).Error, "update build on completion")
	})
}
