package depgraph

import (
	"context"
	"time"

	"github.com/cobalt-cloud/mavengraph/internal/models"
	"github.com/cobalt-cloud/mavengraph/pkg/db"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store persists build-to-build Maven dependency provenance:
// which build produced which artifact, which build consumed which
// artifact, and the upstream/downstream relationships that fall
// out of matching the two. All methods are safe for concurrent use
// by independent builds; the store serializes conflicting writes
// through the underlying transactional storage.
type Store interface {
	WithDatabase(*gorm.DB) Store

	RecordDependency(*DependencyRecord) error
	RecordParentProject(*ParentProjectRecord) error
	RecordGeneratedArtifact(*GeneratedArtifactRecord) error
	RecordBuildUpstreamCause(upstreamJob string, upstreamBuild int, downstreamJob string, downstreamBuild int) error
	UpdateBuildOnCompletion(jobFullName string, buildNumber int, resultOrdinal int, startTime time.Time, duration time.Duration) error

	ListDependencies(jobFullName string, buildNumber int) ([]models.MavenDependency, error)
	GetGeneratedArtifacts(jobFullName string, buildNumber int) ([]models.MavenArtifact, error)
	ListDownstreamJobs(jobFullName string, buildNumber int) ([]string, error)
	ListDownstreamJobsByArtifact(jobFullName string, buildNumber int) (map[models.MavenArtifact][]string, error)
	ListDownstreamJobsByCoordinate(groupID, artifactID, version string, baseVersion *string, artifactType string, classifier *string) ([]string, error)
	ListDownstreamJobsByCoordinateNoClassifier(groupID, artifactID, version string, baseVersion *string, artifactType string) ([]string, error)
	ListUpstreamJobs(jobFullName string, buildNumber int) (map[string]int, error)
	ListTransitiveUpstreamJobs(jobFullName string, buildNumber int) (map[string]int, error)
	ListTransitiveUpstreamJobsWithMemory(jobFullName string, buildNumber int, memory *UpstreamMemory) (map[string]int, error)

	RenameJob(oldFullName, newFullName string) error
	DeleteJob(jobFullName string) error
	DeleteBuild(jobFullName string, buildNumber int) error
	Cleanup() error

	ToPrettyString() (string, error)
	IsEnoughProductionGradeForTheWorkload() bool
	Close() error
}

type storeService struct {
	ctx context.Context
	db  *gorm.DB
}

// Service opens the configured database, migrates the graph
// tables, and returns the store bound to it. Callers own the
// returned store and release it with Close at shutdown.
func Service(ctx context.Context) (Store, error) {
	conn, err := db.Open()
	if err != nil {
		return nil, errors.Wrap(ErrStorageUnavailable, err.Error())
	}

	if err = models.Migrate(conn); err != nil {
		return nil, errors.Wrap(err, "failed to migrate dependency graph tables")
	}

	return &storeService{ctx: ctx, db: conn}, nil
}

// New returns a store bound to an existing connection. The caller
// is responsible for having migrated the graph tables.
func New(ctx context.Context, conn *gorm.DB) Store {
	return &storeService{ctx: ctx, db: conn}
}

func (s *storeService) WithDatabase(conn *gorm.DB) Store {
	s.db = conn
	return s
}

// IsEnoughProductionGradeForTheWorkload reports whether the active
// backend can sustain production write/read volume. A single-file
// embedded engine cannot; operators get warned by the orchestrator.
func (s *storeService) IsEnoughProductionGradeForTheWorkload() bool {
	return s.db.Dialector.Name() == "postgres"
}

func (s *storeService) Close() error {
	return db.Close(s.db)
}
