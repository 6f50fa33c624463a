package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kshell",
		Long:  `All software has versions. This is kshell's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set at build time through SetVersion.
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kshell version %s\n", rootCmd.Version)
		},
	}
}
