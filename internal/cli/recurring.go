package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expensedash/internal/core"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring expenses",
}

var recurringListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring expenses",
	Args:  cobra.NoArgs,
	RunE:  runRecurringList,
}

var recurringGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one recurring expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurringGet,
}

var recurringAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a recurring expense",
	Long: `Create a recurring expense. New recurring expenses are Active unless
--status says otherwise.

Examples:
  expensedash recurring add --name Gym --amount 30 --frequency Monthly --category OTHER
  expensedash recurring add --name Insurance --amount 420 --frequency Annually --category MEDICAL --start 2025-03-01`,
	Args: cobra.NoArgs,
	RunE: runRecurringAdd,
}

var recurringUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a recurring expense; only the given flags are changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurringUpdate,
}

var recurringDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recurring expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurringDelete,
}

var recurringToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Pause an active recurring expense, or reactivate it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurringToggle,
}

var (
	recName        string
	recDescription string
	recAmount      string
	recFrequency   string
	recCategory    string
	recPayment     string
	recStatus      string
	recStart       string
)

func init() {
	rootCmd.AddCommand(recurringCmd)
	recurringCmd.AddCommand(recurringListCmd, recurringGetCmd, recurringAddCmd, recurringUpdateCmd, recurringDeleteCmd, recurringToggleCmd)

	for _, c := range []*cobra.Command{recurringAddCmd, recurringUpdateCmd} {
		c.Flags().StringVarP(&recName, "name", "n", "", "Name")
		c.Flags().StringVarP(&recDescription, "description", "d", "", "Description (max 200 characters)")
		c.Flags().StringVarP(&recAmount, "amount", "a", "", "Amount, e.g. 30 or 29,99")
		c.Flags().StringVarP(&recFrequency, "frequency", "f", "", "Weekly, BiWeekly, Monthly, Quarterly, SemiAnnually or Annually")
		c.Flags().StringVarP(&recCategory, "category", "c", "", "Category: "+strings.Join(core.Categories, ", "))
		c.Flags().StringVarP(&recPayment, "payment", "p", "", "Payment type (optional)")
		c.Flags().StringVar(&recStatus, "status", "", "Active, Paused or Inactive")
		c.Flags().StringVar(&recStart, "start", "", "Start date as YYYY-MM-DD (default: today)")
	}
	_ = recurringAddCmd.MarkFlagRequired("name")
	_ = recurringAddCmd.MarkFlagRequired("amount")
	_ = recurringAddCmd.MarkFlagRequired("frequency")
	_ = recurringAddCmd.MarkFlagRequired("category")
}

func runRecurringList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	items, err := app.API.ListRecurring(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recurring expenses: %s", errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), items)
	}
	return printRecurring(cmd.OutOrStdout(), items)
}

func runRecurringGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	re, err := app.API.GetRecurring(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load recurring expense %d: %s", id, errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), re)
	}
	return printRecurring(cmd.OutOrStdout(), []core.RecurringExpense{re})
}

func runRecurringAdd(cmd *cobra.Command, args []string) error {
	re := core.RecurringExpense{Status: core.StatusActive, StartDate: core.Today()}
	if err := applyRecurringFlags(cmd, &re); err != nil {
		return err
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	created, err := app.API.CreateRecurring(ctx, re)
	if err != nil {
		return fmt.Errorf("failed to create recurring expense: %s", errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recurring Expense Created: %s, %s %s (id %d)\n",
		created.Name, money(created.Amount), created.Frequency, created.ID)
	return nil
}

func runRecurringUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	re, err := app.API.GetRecurring(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load recurring expense %d: %s", id, errorText(err))
	}
	if err := applyRecurringFlags(cmd, &re); err != nil {
		return err
	}
	updated, err := app.API.UpdateRecurring(ctx, id, re)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense %d: %s", id, errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recurring Expense Updated: %s, %s %s\n",
		updated.Name, money(updated.Amount), updated.Frequency)
	return nil
}

func runRecurringDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	if err := app.API.DeleteRecurring(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recurring expense %d: %s", id, errorText(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recurring Expense Deleted (id %d)\n", id)
	return nil
}

func runRecurringToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	re, err := app.API.GetRecurring(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load recurring expense %d: %s", id, errorText(err))
	}
	re.Status = re.Status.Toggled()
	updated, err := app.API.UpdateRecurring(ctx, id, re)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense %d: %s", id, errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Name, updated.Status)
	return nil
}

func applyRecurringFlags(cmd *cobra.Command, re *core.RecurringExpense) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		re.Name = strings.TrimSpace(recName)
	}
	if flags.Changed("description") {
		re.Description = strings.TrimSpace(recDescription)
	}
	if flags.Changed("amount") {
		amount, err := core.ParseAmount(recAmount)
		if err != nil {
			return fmt.Errorf("invalid --amount %q: must be a positive number", recAmount)
		}
		re.Amount = amount
	}
	if flags.Changed("frequency") {
		re.Frequency = core.Frequency(strings.TrimSpace(recFrequency))
	}
	if flags.Changed("category") {
		re.Type = strings.ToUpper(strings.TrimSpace(recCategory))
	}
	if flags.Changed("payment") {
		re.PaymentType = strings.TrimSpace(recPayment)
	}
	if flags.Changed("status") {
		re.Status = core.RecurringStatus(strings.TrimSpace(recStatus))
	}
	if flags.Changed("start") {
		d, err := core.ParseDate(recStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		re.StartDate = d
	}
	return nil
}
