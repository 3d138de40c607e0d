package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/credentials"
	apphttp "expensedash/internal/http"
	applog "expensedash/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the JSON API used by the browser dashboard.

Requests authenticate with their own bearer token. With --use-profile the
token saved by "expensedash login" is used when a request has none.

Examples:
  expensedash serve               # Listen on PORT (default 8081)
  expensedash serve --port 3000   # Listen on port 3000`,
	RunE: runServe,
}

var (
	servePort       string
	serveUseProfile bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default: PORT)")
	serveCmd.Flags().BoolVar(&serveUseProfile, "use-profile", false, "Fall back to the saved profile token")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}

	metrics, err := newMetrics(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		// Toasts still reach the response headers; only the broadcast is lost.
		logger.Warn("Notifications disabled", applog.FieldError, err.Error())
	}

	var fallback credentials.Provider = credentials.Static(cfg.APIToken)
	if serveUseProfile {
		fallback = credentials.Chain{fallback, app.Store.Provider(cfg.Profile)}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + port,
		API:                app.API,
		Fallback:           fallback,
		Notifier:           notifier,
		Metrics:            metrics,
		Logger:             logger,
		SessionCacheSize:   cfg.SessionCacheSize,
		SessionTTL:         cfg.SessionTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              app.Store.Ping,
	})

	ctx, done := GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		if err := metrics.Close(ctx); err != nil {
			logger.Warn("Telemetry shutdown error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Starting expensedash server",
		applog.FieldOperation, applog.OpStartup,
		"port", port,
		"expense_api", cfg.ExpenseAPIURL,
		"telemetry", cfg.OTelEnabled,
		"notifications", cfg.AMQPURL != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error on port %s: %w", port, err)
	}

	WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
