package cmd

import (
	"github.com/cobalt-cloud/mavengraph/cmd/cleanup"
	"github.com/cobalt-cloud/mavengraph/cmd/dump"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	dump.Cmd,
	cleanup.Cmd,
}

// Execute builds the command tree and executes commands.
func Execute() error {
	command := &cobra.Command{
		Use: "mavengraph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	return command.Execute()
}
