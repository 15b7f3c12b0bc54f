package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root Cobra command.
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proxy",
		Short: "A semantic SQL proxy speaking the PostgreSQL wire protocol.",
		Long: `proxy rewrites client SQL against a semantic model of measures and
dimensions, then forwards the rewritten query to a PostgreSQL or Snowflake
backend, streaming results back over the PostgreSQL v3 wire protocol.

Usage:
  proxy serve      Start the wire server using the process environment
  proxy genauth    Generate an AUTH-compatible user,password fragment
  proxy version    Print build version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newGenAuthCmd(),
		newVersionCmd(version, commit, date),
	)

	return rootCmd
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("proxy %s\n", version)
			if commit != "none" {
				fmt.Printf("  commit: %s\n", commit)
			}
			if date != "unknown" {
				fmt.Printf("  built:  %s\n", date)
			}
		},
	}
}
