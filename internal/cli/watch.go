package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	applog "expensedash/internal/log"
	"expensedash/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow toast notifications from AMQP",
	Long: `Consume the notifications the server and CLI publish (refreshes,
created/updated/deleted expenses, failures) and print them as they arrive.

Requires AMQP_URL. The consumer reconnects with backoff until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchProfile string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchProfile, "only", "", "Only show notifications tagged with this profile or session")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set")
	}

	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	defer client.Close()

	ctx, stop := signalContext()
	defer stop()

	out := cmd.OutOrStdout()
	logger.Info("Watching notifications", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.Consume(ctx, func(ctx context.Context, n notify.Notification) error {
		if watchProfile != "" && n.Profile != watchProfile {
			return nil
		}
		if flagJSON {
			return printJSON(out, n)
		}
		_, err := fmt.Fprintln(out, formatNotification(n))
		return err
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notification consumer stopped", applog.FieldError, err.Error())
		return err
	}
	return nil
}

func formatNotification(n notify.Notification) string {
	line := fmt.Sprintf("%s [%s] %s", n.Timestamp.Local().Format("15:04:05"), n.Type, n.Title)
	if n.Message != "" {
		line += ": " + n.Message
	}
	if n.Profile != "" {
		line += " (" + n.Profile + ")"
	}
	return line
}
