package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expensedash/internal/config"
	applog "expensedash/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "expensedash",
	Short: "Expense tracker dashboard and client",
	Long: `expensedash talks to the expense tracker backend on your behalf.

It serves a JSON API for the browser dashboard, and from the terminal it
signs you in, shows the spending dashboard, manages expenses and recurring
expenses, and exports dashboard snapshots.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Global flags
var (
	flagProfile  string
	flagLogLevel string
	flagJSON     bool
)

// Populated by loadSettings before any command runs.
var (
	cfg    *config.Config
	logger *applog.Logger
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Credential profile (default: EXPENSEDASH_PROFILE or \"default\")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	LoadEnvFile()
	c, err := LoadAndValidateConfig(func(c *config.Config) {
		if flagProfile != "" {
			c.Profile = flagProfile
		}
		if flagLogLevel != "" {
			c.LogLevel = flagLogLevel
		}
	})
	if err != nil {
		return err
	}
	cfg = c
	logger = SetupLogger(cfg)
	return nil
}
