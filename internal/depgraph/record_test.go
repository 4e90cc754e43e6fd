package depgraph

import (
	"context"
	"testing"
	"time"

	"github.com/cobalt-cloud/mavengraph/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRecordDependencyIdempotent(t *testing.T) {
	store := newTestStore(t)

	rec := dependency("team/app", 1, "com.example", "core", "1.0")
	require.NoError(t, store.RecordDependency(rec))
	require.NoError(t, store.RecordDependency(rec))
	require.NoError(t, store.RecordDependency(rec))

	deps, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.Equal(t, "com.example:core:1.0", deps[0].Short())
	require.Equal(t, "compile", deps[0].Scope)
}

func TestRecordDependencyClassifierDistinct(t *testing.T) {
	store := newTestStore(t)

	plain := dependency("team/app", 1, "com.example", "core", "1.0")
	require.NoError(t, store.RecordDependency(plain))

	sources := dependency("team/app", 1, "com.example", "core", "1.0")
	classifier := "sources"
	sources.Classifier = &classifier
	require.NoError(t, store.RecordDependency(sources))
	require.NoError(t, store.RecordDependency(sources))

	deps, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	require.Empty(t, deps[0].Classifier)
	require.Equal(t, "sources", deps[1].Classifier)
}

func TestRecordDependencyValidation(t *testing.T) {
	store := newTestStore(t)

	rec := dependency("team/app", 1, "", "core", "1.0")
	err := store.RecordDependency(rec)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	rec = dependency("", 1, "com.example", "core", "1.0")
	require.True(t, errors.Is(store.RecordDependency(rec), ErrInvalidArgument))
}

func TestRecordGeneratedArtifactRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rec := artifact("team/lib", 3, "com.example", "core", "1.0-20240101.100000-1")
	rec.BaseVersion = "1.0-SNAPSHOT"
	repo := "https://repo.example.com/snapshots"
	rec.RepositoryURL = &repo
	require.NoError(t, store.RecordGeneratedArtifact(rec))
	require.NoError(t, store.RecordGeneratedArtifact(rec))

	artifacts, err := store.GetGeneratedArtifacts("team/lib", 3)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, "com.example:core:1.0-20240101.100000-1", artifacts[0].Short())
	require.Equal(t, "1.0-SNAPSHOT", artifacts[0].BaseVersion)
	require.Equal(t, repo, artifacts[0].RepositoryURL)
}

func TestRecordGeneratedArtifactBaseVersionFallback(t *testing.T) {
	store := newTestStore(t)

	// never deployed: no expanded form, base defaults to version
	require.NoError(t, store.RecordGeneratedArtifact(
		artifact("team/lib", 1, "com.example", "core", "2.0"),
	))

	artifacts, err := store.GetGeneratedArtifacts("team/lib", 1)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, "2.0", artifacts[0].BaseVersion)
}

func TestGetGeneratedArtifactsCollapsesRedeploys(t *testing.T) {
	store := newTestStore(t)

	first := artifact("team/lib", 1, "com.example", "core", "1.0-20240101.100000-1")
	first.BaseVersion = "1.0-SNAPSHOT"
	require.NoError(t, store.RecordGeneratedArtifact(first))

	second := artifact("team/lib", 1, "com.example", "core", "1.0-20240102.120000-2")
	second.BaseVersion = "1.0-SNAPSHOT"
	require.NoError(t, store.RecordGeneratedArtifact(second))

	artifacts, err := store.GetGeneratedArtifacts("team/lib", 1)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, "1.0-20240102.120000-2", artifacts[0].Version)
}

func TestRecordImplicitlyCreatesJobAndBuild(t *testing.T) {
	gdb := openTestDB(t)
	store := New(context.Background(), gdb)

	require.NoError(t, store.RecordDependency(
		dependency("team/app", 7, "com.example", "core", "1.0"),
	))

	var job models.Job
	require.NoError(t, gdb.First(&job, "full_name = ?", "team/app").Error)

	var build models.Build
	require.NoError(t, gdb.First(&build, "job_full_name = ? AND number = ?", "team/app", 7).Error)
	require.Nil(t, build.ResultOrdinal)
}

func TestRecordBuildUpstreamCause(t *testing.T) {
	gdb := openTestDB(t)
	store := New(context.Background(), gdb)

	require.NoError(t, store.RecordBuildUpstreamCause("team/lib", 4, "team/app", 9))
	require.NoError(t, store.RecordBuildUpstreamCause("team/lib", 4, "team/app", 9))

	var count int64
	require.NoError(t, gdb.Model(&models.UpstreamCause{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.True(t, errors.Is(
		store.RecordBuildUpstreamCause("", 4, "team/app", 9),
		ErrInvalidArgument,
	))
}

func TestUpdateBuildOnCompletionLastWins(t *testing.T) {
	gdb := openTestDB(t)
	store := New(context.Background(), gdb)

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateBuildOnCompletion("team/app", 12, 0, start, 90*time.Second))
	require.NoError(t, store.UpdateBuildOnCompletion("team/app", 12, 2, start, 120*time.Second))

	var build models.Build
	require.NoError(t, gdb.First(&build, "job_full_name = ? AND number = ?", "team/app", 12).Error)
	require.NotNil(t, build.ResultOrdinal)
	require.Equal(t, 2, *build.ResultOrdinal)
	require.NotNil(t, build.Duration)
	require.Equal(t, 120*time.Second, *build.Duration)
}

func TestListingsReturnEmptyNotNil(t *testing.T) {
	store := newTestStore(t)

	deps, err := store.ListDependencies("ghost", 1)
	require.NoError(t, err)
	require.NotNil(t, deps)
	require.Empty(t, deps)

	artifacts, err := store.GetGeneratedArtifacts("ghost", 1)
	require.NoError(t, err)
	require.NotNil(t, artifacts)
	require.Empty(t, artifacts)

	upstreams, err := store.ListUpstreamJobs("ghost", 1)
	require.NoError(t, err)
	require.NotNil(t, upstreams)
	require.Empty(t, upstreams)
}

func TestListDependenciesSorted(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "org.zeta", "util", "1.0")))
	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "2.0")))
	require.NoError(t, store.RecordDependency(dependency("team/app", 1, "com.example", "core", "1.0")))

	deps, err := store.ListDependencies("team/app", 1)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	require.Equal(t, "com.example:core:1.0", deps[0].Short())
	require.Equal(t, "com.example:core:2.0", deps[1].Short())
	require.Equal(t, "org.zeta:util:1.0", deps[2].Short())
}
