package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the spending dashboard",
	Long: `Fetch every summary endpoint and print the dashboard.

With --interval the dashboard is refreshed until interrupted. A failed
refresh prints the error and keeps showing the last good dashboard.

Examples:
  expensedash dashboard
  expensedash dashboard --json
  expensedash dashboard --interval 1m`,
	RunE: runDashboard,
}

var dashboardInterval time.Duration

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().DurationVarP(&dashboardInterval, "interval", "i", 0, "Refresh interval (0 = print once)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	metrics, err := newMetrics(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer metrics.Close(context.Background())

	view := newView(app, metrics)
	defer view.Close()

	out := cmd.OutOrStdout()
	render := func() error {
		snap, err := view.Refresh(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(out, snap)
		}
		return printSnapshot(out, snap)
	}

	if dashboardInterval <= 0 {
		if err := render(); err != nil {
			return fmt.Errorf("failed to load dashboard: %s", expenseapi.UserMessage(err))
		}
		return nil
	}

	ticker := time.NewTicker(dashboardInterval)
	defer ticker.Stop()
	for {
		if err := render(); err != nil {
			logger.Warn("Dashboard refresh failed",
				applog.FieldOperation, applog.OpRefresh,
				applog.FieldErrorKind, expenseapi.KindOf(err),
				applog.FieldError, err.Error())
			fmt.Fprintf(cmd.ErrOrStderr(), "Refresh failed: %s\n", expenseapi.UserMessage(err))
			if expenseapi.IsAuth(err) {
				return fmt.Errorf("not signed in; run \"expensedash login\"")
			}
		} else if !flagJSON {
			fmt.Fprintf(out, "\nUpdated %s\n\n", view.UpdatedAt().Format(time.Kitchen))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
