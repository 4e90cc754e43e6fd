package cleanup

import (
	"github.com/cobalt-cloud/mavengraph/internal/depgraph"
	"github.com/cobalt-cloud/mavengraph/internal/maintenance"
	"github.com/cobalt-cloud/mavengraph/pkg/env"
	"github.com/cobalt-cloud/mavengraph/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "cleanup"
	short   = "Reclaim orphaned rows from the dependency graph"
	long    = "This command reclaims orphaned builds, edges, and jobs, then compacts the database where the backend supports it"
	example = "mavengraph cleanup [--listen]"
)

var (
	// Cmd is the cleanup command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE:    run,
	}

	listen bool
)

func init() {
	Cmd.Flags().BoolVar(&listen, "listen", false, "keep running cleanup on the configured schedule")
}

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

	if !listen {
		return store.Cleanup()
	}

	runner, err := maintenance.NewRunner(store, env.Variables().CleanupSchedule)
	if err != nil {
		return err
	}

	runner.Listen(cmd.Context())
	return nil
}
