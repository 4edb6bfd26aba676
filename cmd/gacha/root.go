package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha/internal/adapters/cli"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gacha",
		Short:         "Serve the gacha web client and compile its theme",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBuildCSSCmd())
	cmd.AddCommand(newRoutesCmd())
	cmd.AddCommand(newPaletteCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newOutput colours output only when the command writes to the terminal.
func newOutput(cmd *cobra.Command) *cli.Output {
	if cmd.OutOrStdout() == os.Stdout {
		return cli.NewOutput()
	}
	return cli.NewOutputTo(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
