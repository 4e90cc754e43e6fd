package depgraph

import (
	"github.com/cobalt-cloud/mavengraph/internal/models"
	"github.com/cobalt-cloud/mavengraph/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// jobNameColumns enumerates every (model, column) pair that keys a
// row by job name. Rename and delete walk this list so a new edge
// table cannot be forgotten.
var jobNameColumns = []struct {
	model  interface{}
	column string
}{
	{&models.Job{}, "full_name"},
	{&models.Build{}, "job_full_name"},
	{&models.Dependency{}, "job_full_name"},
	{&models.ParentProject{}, "job_full_name"},
	{&models.GeneratedArtifact{}, "job_full_name"},
	{&models.UpstreamCause{}, "upstream_job_name"},
	{&models.UpstreamCause{}, "downstream_job_name"},
}

// RenameJob rewrites the job-name key on every row referencing the
// old name. The rewrite is one transaction: a concurrent read sees
// the fully-old or fully-new name, never a partially renamed graph.
func (s *storeService) RenameJob(oldFullName, newFullName string) error {
	if err := requireFields(
		"oldFullName", oldFullName,
		"newFullName", newFullName,
	); err != nil {
		return err
	}

	var total int64
	err := s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range jobNameColumns {
			res := tx.Model(target.model).
				Where(target.column+" = ?", oldFullName).
				Update(target.column, newFullName)
			if res.Error != nil {
				return storageErr(res.Error, "rename "+target.column)
			}
			total += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return err
	}

	if total == 0 {
		return errors.Wrapf(ErrNotFound, "job %q", oldFullName)
	}

	log.Info("job renamed", "old", oldFullName, "new", newFullName, "rows", total)
	return nil
}

// DeleteJob removes the job, all its builds, and every edge keyed
// to it. Deleting an unknown job is a no-op.
func (s *storeService) DeleteJob(jobFullName string) error {
	if err := requireFields("jobFullName", jobFullName); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range jobNameColumns {
			res := tx.Where(target.column+" = ?", jobFullName).Delete(target.model)
			if res.Error != nil {
				return storageErr(res.Error, "delete job rows")
			}
		}
		return nil
	})
}

// DeleteBuild removes one build and its edges without touching the
// job's other builds.
func (s *storeService) DeleteBuild(jobFullName string, buildNumber int) error {
	if err := requireFields("jobFullName", jobFullName); err != nil {
		return err
	}

	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range []struct {
			model         interface{}
			jobCol, numCol string
		}{
			{&models.Build{}, "job_full_name", "number"},
			{&models.Dependency{}, "job_full_name", "build_number"},
			{&models.ParentProject{}, "job_full_name", "build_number"},
			{&models.GeneratedArtifact{}, "job_full_name", "build_number"},
			{&models.UpstreamCause{}, "upstream_job_name", "upstream_build_number"},
			{&models.UpstreamCause{}, "downstream_job_name", "downstream_build_number"},
		} {
			res := tx.Where(target.jobCol+" = ? AND "+target.numCol+" = ?", jobFullName, buildNumber).
				Delete(target.model)
			if res.Error != nil {
				return storageErr(res.Error, "delete build rows")
			}
		}
		return nil
	})
}

// orphanEdgeTables pairs each edge table with its build reference
// for the cleanup scan.
var orphanEdgeTables = []string{"dependencies", "parent_projects", "generated_artifacts"}

// Cleanup reclaims rows that became orphaned outside this store's
// lifecycle calls: edges whose build row is gone and jobs left
// with no builds. The reclamation runs in one transaction so a
// concurrent closure walk observes a consistent snapshot; on
// sqlite, disk space is then reclaimed with VACUUM.
func (s *storeService) Cleanup() error {
	err := s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range orphanEdgeTables {
			res := tx.Exec(
				"DELETE FROM " + table + " WHERE NOT EXISTS (" +
					"SELECT 1 FROM builds WHERE builds.job_full_name = " + table + ".job_full_name" +
					" AND builds.number = " + table + ".build_number)",
			)
			if res.Error != nil {
				return storageErr(res.Error, "reclaim orphaned edges")
			}
			if res.RowsAffected > 0 {
				// edges only orphan when builds vanish outside the
				// delete API
				log.Warn("reclaimed orphaned edges",
					"table", table,
					"rows", res.RowsAffected,
					"error", ErrInconsistent,
				)
			}
		}

		res := tx.Exec("DELETE FROM jobs WHERE full_name NOT IN (SELECT DISTINCT job_full_name FROM builds)")
		if res.Error != nil {
			return storageErr(res.Error, "reclaim jobs without builds")
		}
		if res.RowsAffected > 0 {
			log.Info("reclaimed jobs without builds", "rows", res.RowsAffected)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if s.db.Dialector.Name() == "sqlite" {
		if err := s.db.WithContext(s.ctx).Exec("VACUUM").Error; err != nil {
			return storageErr(err, "vacuum")
		}
	}

	return nil
}
