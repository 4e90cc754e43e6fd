package depgraph

import (
	"fmt"
	"strings"

	"github.com/cobalt-cloud/mavengraph/internal/models"
)

// ToPrettyString renders a human-readable dump of the graph for
// debugging: table counts, then each job's builds with their
// consumed and produced coordinates.
func (s *storeService) ToPrettyString() (string, error) {
	var b strings.Builder

	b.WriteString("maven dependency graph (")
	b.WriteString(s.db.Dialector.Name())
	b.WriteString(")\n")

	for _, table := range []struct {
		name  string
		model interface{}
	}{
		{"jobs", &models.Job{}},
		{"builds", &models.Build{}},
		{"dependencies", &models.Dependency{}},
		{"parent projects", &models.ParentProject{}},
		{"generated artifacts", &models.GeneratedArtifact{}},
		{"upstream causes", &models.UpstreamCause{}},
	} {
		var count int64
		if err := s.db.WithContext(s.ctx).Model(table.model).Count(&count).Error; err != nil {
			return "", storageErr(err, "count "+table.name)
		}
		fmt.Fprintf(&b, "  %s: %d\n", table.name, count)
	}

	jobs := []models.Job{}
	if err := s.db.WithContext(s.ctx).Order("full_name").Find(&jobs).Error; err != nil {
		return "", storageErr(err, "list jobs")
	}

	for i := range jobs {
		fmt.Fprintf(&b, "job %s\n", jobs[i].FullName)

		builds := []models.Build{}
		err := s.db.WithContext(s.ctx).
			Where("job_full_name = ?", jobs[i].FullName).
			Order("number").
			Find(&builds).Error
		if err != nil {
			return "", storageErr(err, "list builds")
		}

		for j := range builds {
			fmt.Fprintf(&b, "  build #%d\n", builds[j].Number)

			dependencies, err := s.ListDependencies(jobs[i].FullName, builds[j].Number)
			if err != nil {
				return "", err
			}
			for _, d := range dependencies {
				fmt.Fprintf(&b, "    consumes %s (%s)\n", d.String(), d.Scope)
			}

			artifacts, err := s.GetGeneratedArtifacts(jobs[i].FullName, builds[j].Number)
			if err != nil {
				return "", err
			}
			for _, a := range artifacts {
				fmt.Fprintf(&b, "    produces %s\n", a.String())
			}
		}
	}

	return b.String(), nil
}
