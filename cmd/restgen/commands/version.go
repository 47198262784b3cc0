package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/restgen"
	"github.com/erraggy/restgen/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			cliutil.Writef(out, "restgen v%s\n", restgen.Version())
			cliutil.Writef(out, "commit: %s\n", restgen.Commit())
			cliutil.Writef(out, "go: %s\n", restgen.GoVersion())
		},
	}
}
