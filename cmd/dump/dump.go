package dump

import (
	"fmt"

	"github.com/cobalt-cloud/mavengraph/internal/depgraph"
	"github.com/cobalt-cloud/mavengraph/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "dump"
	short   = "Print the dependency graph in a human-readable form"
	long    = "This command prints every job, build, and recorded coordinate in the dependency graph"
	example = "mavengraph dump"
)

var (
	// Cmd is the dump command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE:    run,
	}
)

func run(cmd *cobra.Command, args []string) error {
	store, err := depgraph.Service(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("store close failure", "error", err)
		}
	}()

	if !store.IsEnoughProductionGradeForTheWorkload() {
		log.Warn("storage backend is not production grade for this workload")
	}

	pretty, err := store.ToPrettyString()
	if err != nil {
		return err
	}

	fmt.Print(pretty)
	return nil
}
