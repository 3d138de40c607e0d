package cli

import (
	"context"
	"fmt"
	"io"

	"expensedash/internal/config"
	"expensedash/internal/credentials"
	"expensedash/internal/dashboard"
	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
	"expensedash/internal/notify"
	ports "expensedash/internal/sheets"
	gsheet "expensedash/internal/sheets/google"
	mem "expensedash/internal/sheets/memory"
	"expensedash/internal/storage"
	"expensedash/internal/telemetry"
)

// AppContext holds the shared dependencies for CLI commands.
type AppContext struct {
	Config *config.Config
	Logger *applog.Logger
	Store  *storage.CredentialStore
	// API authenticates with API_TOKEN when set, otherwise with the token
	// saved for the active profile.
	API *expenseapi.Client
}

// NewAppContext opens the credential store and builds the backend client.
func NewAppContext(cfg *config.Config, logger *applog.Logger) (*AppContext, error) {
	store, err := storage.NewCredentialStore(cfg.CredentialsDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	creds := credentials.Chain{
		credentials.Static(cfg.APIToken),
		store.Provider(cfg.Profile),
	}
	api := expenseapi.New(expenseapi.Config{
		ExpenseURL: cfg.ExpenseAPIURL,
		UserURL:    cfg.UserAPIURL,
		AuthURL:    cfg.AuthAPIURL,
		Timeout:    cfg.HTTPClientTimeout,
	}, creds, logger)

	return &AppContext{
		Config: cfg,
		Logger: logger,
		Store:  store,
		API:    api,
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func openApp() (*AppContext, error) {
	return NewAppContext(cfg, logger)
}

// newNotifier publishes to AMQP when AMQP_URL is set, otherwise to the log.
func newNotifier(cfg *config.Config, logger *applog.Logger) (notify.Publisher, error) {
	if cfg.AMQPURL == "" {
		return notify.NewLogPublisher(logger), nil
	}
	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	logger.Info("Notifications enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, nil
}

func newMetrics(ctx context.Context, cfg *config.Config) (telemetry.Closer, error) {
	return telemetry.New(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
		ServiceName: cfg.OTelServiceName,
	})
}

// newExporter writes to Google Sheets when a spreadsheet is configured,
// otherwise it prints the rows to out.
func newExporter(ctx context.Context, cfg *config.Config, logger *applog.Logger, out io.Writer) (ports.SnapshotExporter, string, error) {
	if !cfg.SheetsEnabled() {
		return mem.New(out), "memory", nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		Sheet:              cfg.GoogleDashboardSheet,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
	}
	return client, "sheets", nil
}

// newView builds a dashboard view over the app's backend client.
func newView(app *AppContext, metrics dashboard.Metrics) *dashboard.View {
	agg := dashboard.NewAggregator(app.API,
		dashboard.WithLimit(app.API),
		dashboard.WithLogger(app.Logger),
		dashboard.WithMetrics(metrics))
	return dashboard.NewView(agg)
}
