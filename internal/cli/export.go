package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
	"expensedash/internal/notify"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a dashboard snapshot",
	Long: `Fetch the dashboard and export it.

The snapshot goes to Google Sheets when GOOGLE_SPREADSHEET_ID is set and is
printed as a table otherwise.

Examples:
  expensedash export
  GOOGLE_SPREADSHEET_ID=1AbC... expensedash export`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	exporter, target, err := newExporter(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	metrics, err := newMetrics(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer metrics.Close(context.Background())

	view := newView(app, metrics)
	defer view.Close()

	snap, err := view.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %s", expenseapi.UserMessage(err))
	}

	start := time.Now()
	ref, err := exporter.Export(ctx, snap, start.UTC())
	if err != nil {
		logger.Error("Dashboard export failed",
			applog.FieldOperation, applog.OpExport,
			"target", target,
			applog.FieldError, err.Error())
		return fmt.Errorf("export failed: %w", err)
	}
	logger.Info("Dashboard exported",
		applog.FieldOperation, applog.OpExport,
		"target", target,
		"ref", ref,
		applog.FieldDuration, time.Since(start).Milliseconds())

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Notifications disabled", applog.FieldError, err.Error())
	} else {
		defer notifier.Close()
		n := notify.Success("Dashboard exported", ref)
		n.Profile = cfg.Profile
		if err := notifier.Publish(ctx, n); err != nil {
			logger.Warn("Failed to publish export notification", applog.FieldError, err.Error())
		}
	}

	if target != "memory" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", ref)
	}
	return nil
}
