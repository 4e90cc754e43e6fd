package depgraph

import (
	"context"
	"testing"

	"github.com/cobalt-cloud/mavengraph/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRenameJobConsistency(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordDependency(dependency("team/old", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.RecordGeneratedArtifact(artifact("team/old", 1, "com.example", "app", "2.0")))

	before, err := store.ListDependencies("team/old", 1)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, store.RenameJob("team/old", "team/new"))

	gone, err := store.ListDependencies("team/old", 1)
	require.NoError(t, err)
	require.Empty(t, gone)

	after, err := store.ListDependencies("team/new", 1)
	require.NoError(t, err)
	require.Equal(t, before, after)

	artifacts, err := store.GetGeneratedArtifacts("team/new", 1)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
}

func TestRenameJobRewritesUpstreamCauses(t *testing.T) {
	gdb := openTestDB(t)
	store := New(context.Background(), gdb)

	require.NoError(t, store.RecordBuildUpstreamCause("team/old", 1, "team/down", 2))
	require.NoError(t, store.RecordBuildUpstreamCause("team/up", 3, "team/old", 4))

	require.NoError(t, store.RenameJob("team/old", "team/new"))

	var count int64
	require.NoError(t, gdb.Model(&models.UpstreamCause{}).
		Where("upstream_job_name = ? OR downstream_job_name = ?", "team/old", "team/old").
		Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, gdb.Model(&models.UpstreamCause{}).
		Where("upstream_job_name = ? OR downstream_job_name = ?", "team/new", "team/new").
		Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestRenameJobNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.RenameJob("team/ghost", "team/new")
	require.True(t, errors.Is(err, ErrNotFound))

	require.True(t, errors.Is(store.RenameJob("", "team/new"), ErrInvalidArgument))
}

func TestDeleteJobCascade(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordGeneratedArtifact(artifact("team/lib", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))

	downstream, err := store.ListDownstreamJobs("team/lib", 1)
	require.NoError(t, err)
	require.Equal(t, []string{"team/app"}, downstream)

	require.NoError(t, store.DeleteJob("team/app"))

	deps, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Empty(t, deps)

	// the deleted job vanished from other jobs' results
	downstream, err = store.ListDownstreamJobs("team/lib", 1)
	require.NoError(t, err)
	require.Empty(t, downstream)

	// deleting an unknown job is a no-op
	require.NoError(t, store.DeleteJob("team/app"))
}

func TestDeleteBuildScoped(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.RecordDependency(dependency("team/app", 2, "com.example", "core", "2.0")))

	require.NoError(t, store.DeleteBuild("team/app", 1))

	gone, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Empty(t, gone)

	kept, err := store.ListDependencies("team/app", 2)
	require.NoError(t, err)
	require.Len(t, kept, 1)
}

func TestCleanupReclaimsOrphans(t *testing.T) {
	gdb := openTestDB(t)
	store := New(context.Background(), gdb)

	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.RecordGeneratedArtifact(artifact("team/app", 1, "com.example", "app", "1.0")))

	// simulate the orchestrator dropping builds outside the store's
	// lifecycle calls
	require.NoError(t, gdb.Exec("DELETE FROM builds WHERE job_full_name = ?", "team/app").Error)

	require.NoError(t, store.Cleanup())

	var count int64
	require.NoError(t, gdb.Model(&models.Dependency{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, gdb.Model(&models.GeneratedArtifact{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, gdb.Model(&models.Job{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCleanupKeepsLiveRows(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.Cleanup())

	deps, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Len(t, deps, 1)
}

func TestToPrettyString(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))
	require.NoError(t, store.RecordGeneratedArtifact(artifact("team/app", 1, "com.example", "app", "2.0")))

	pretty, err := store.ToPrettyString()
	require.NoError(t, err)
	require.Contains(t, pretty, "job team/app")
	require.Contains(t, pretty, "build #1")
	require.Contains(t, pretty, "consumes com.example:core:jar:1.0")
	require.Contains(t, pretty, "produces com.example:app:jar:2.0")
}
