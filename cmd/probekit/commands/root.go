// Package commands implements the probekit command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probekit/config"
)

// Version is the build version, set with -ldflags "-X ...commands.Version=...".
var Version = "0.0.0-dev"

// lookupEnv reads the process environment. Tests replace it.
var lookupEnv config.LookupFunc = os.LookupEnv

// NewRootCmd constructs the probekit root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "probekit",
		Short:         "Composite health and readiness checks",
		Long:          "probekit runs liveness, dependency, resource and filesystem probes concurrently and reduces them to one health report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the probekit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "probekit version %s\n", Version)
		},
	})

	return cmd
}
