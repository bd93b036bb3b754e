package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probekit/cmd/probekit/internal/clierr"
	"github.com/jonwraymond/probekit/config"
	"github.com/jonwraymond/probekit/health"
)

const telemetryFlushTimeout = 5 * time.Second

func newCheckCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every probe once and print the JSON report",
		Long: `Run every probe once and print the JSON report to stdout.

Exit status is 0 when the report is healthy and 1 otherwise. If the engine
cannot produce a report, a minimal error document is printed instead and the
exit status is 1. Invalid configuration exits with 2.`,
		Args: cobra.NoArgs,
	}
	flags := config.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON report")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadWithFlags(flags, lookupEnv)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "", err)
		}

		obs, err := newObserver(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "telemetry", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
			defer cancel()
			_ = obs.Shutdown(flushCtx)
		}()

		engine, err := buildEngine(ctx, cfg, obs, nil, lookupEnv)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "", err)
		}

		var doc any
		exit := 0
		report, err := engine.Run(ctx)
		if err != nil {
			errDoc := health.NewErrorDocument(err, time.Now())
			doc, exit = errDoc, errDoc.ExitCode()
		} else {
			doc, exit = report, report.ExitCode()
		}

		if err := writeJSON(cmd, doc, pretty); err != nil {
			return clierr.Wrap(clierr.ExitUnhealthy, "write report", err)
		}
		if exit != 0 {
			return clierr.Silent(exit)
		}
		return nil
	}

	return cmd
}

func writeJSON(cmd *cobra.Command, v any, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
