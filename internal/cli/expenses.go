package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"expensedash/internal/core"
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense"},
	Short:   "Manage expenses",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Long: `List expenses, optionally filtered.

--search matches descriptions without regard to case. --category takes a
category name or "all".

Examples:
  expensedash expenses list
  expensedash expenses list --search pizza --category FOOD`,
	Args: cobra.NoArgs,
	RunE: runExpensesList,
}

var expensesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesGet,
}

var expensesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Long: `Record an expense.

Examples:
  expensedash expenses add --name Lunch --amount 12,50 --category FOOD --payment Cash
  expensedash expenses add --name Rent --amount 900 --category RENT --payment BankTransfer --date 2025-01-01`,
	Args: cobra.NoArgs,
	RunE: runExpensesAdd,
}

var expensesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an expense; only the given flags are changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesUpdate,
}

var expensesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesDelete,
}

var (
	expSearch      string
	expListCat     string
	expCategory    string
	expName        string
	expDescription string
	expAmount      string
	expDate        string
	expPayment     string
)

func init() {
	rootCmd.AddCommand(expensesCmd)
	expensesCmd.AddCommand(expensesListCmd, expensesGetCmd, expensesAddCmd, expensesUpdateCmd, expensesDeleteCmd)

	expensesListCmd.Flags().StringVarP(&expSearch, "search", "s", "", "Match descriptions containing this text")
	expensesListCmd.Flags().StringVarP(&expListCat, "category", "c", core.AllCategories, "Only this category")

	for _, c := range []*cobra.Command{expensesAddCmd, expensesUpdateCmd} {
		c.Flags().StringVarP(&expName, "name", "n", "", "Name")
		c.Flags().StringVarP(&expDescription, "description", "d", "", "Description (max 200 characters)")
		c.Flags().StringVarP(&expAmount, "amount", "a", "", "Amount, e.g. 12.50 or 12,50")
		c.Flags().StringVarP(&expCategory, "category", "c", "", "Category: "+strings.Join(core.Categories, ", "))
		c.Flags().StringVar(&expDate, "date", "", "Date as YYYY-MM-DD (default: today)")
		c.Flags().StringVarP(&expPayment, "payment", "p", "", "Payment type: "+strings.Join(core.PaymentTypes, ", "))
	}
	_ = expensesAddCmd.MarkFlagRequired("name")
	_ = expensesAddCmd.MarkFlagRequired("amount")
	_ = expensesAddCmd.MarkFlagRequired("category")
	_ = expensesAddCmd.MarkFlagRequired("payment")
}

func runExpensesList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	items, err := app.API.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %s", errorText(err))
	}
	filtered := core.FilterExpenses(items, expSearch, categoryFilter(expListCat))

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), filtered)
	}
	if err := printExpenses(cmd.OutOrStdout(), filtered); err != nil {
		return err
	}
	total := decimal.Zero
	for _, e := range filtered {
		total = total.Add(e.Amount)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d expenses, %s\n", len(filtered), len(items), money(total))
	return nil
}

func runExpensesGet(cmd *cobra.Command, args []string) error {
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

	e, err := app.API.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load expense %d: %s", id, errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), e)
	}
	return printExpenses(cmd.OutOrStdout(), []core.Expense{e})
}

func runExpensesAdd(cmd *cobra.Command, args []string) error {
	e := core.Expense{Date: core.Today()}
	if err := applyExpenseFlags(cmd, &e); err != nil {
		return err
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	created, err := app.API.CreateExpense(ctx, e)
	if err != nil {
		return fmt.Errorf("failed to create expense: %s", errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Expense Created: %s, %s (id %d)\n", created.Name, money(created.Amount), created.ID)
	return nil
}

func runExpensesUpdate(cmd *cobra.Command, args []string) error {
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

	e, err := app.API.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load expense %d: %s", id, errorText(err))
	}
	if err := applyExpenseFlags(cmd, &e); err != nil {
		return err
	}
	updated, err := app.API.UpdateExpense(ctx, id, e)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %s", id, errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Expense Updated: %s, %s\n", updated.Name, money(updated.Amount))
	return nil
}

func runExpensesDelete(cmd *cobra.Command, args []string) error {
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

	if err := app.API.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense %d: %s", id, errorText(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Expense Deleted (id %d)\n", id)
	return nil
}

// applyExpenseFlags copies the flags the user set onto e.
func applyExpenseFlags(cmd *cobra.Command, e *core.Expense) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		e.Name = strings.TrimSpace(expName)
	}
	if flags.Changed("description") {
		e.Description = strings.TrimSpace(expDescription)
	}
	if flags.Changed("amount") {
		amount, err := core.ParseAmount(expAmount)
		if err != nil {
			return fmt.Errorf("invalid --amount %q: must be a positive number", expAmount)
		}
		e.Amount = amount
	}
	if flags.Changed("category") {
		e.Type = strings.ToUpper(strings.TrimSpace(expCategory))
	}
	if flags.Changed("date") {
		d, err := core.ParseDate(expDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		e.Date = d
	}
	if flags.Changed("payment") {
		e.PaymentType = strings.TrimSpace(expPayment)
	}
	return nil
}

// categoryFilter normalizes a --category value; "all" in any case matches
// everything, other values are category names.
func categoryFilter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, core.AllCategories) {
		return core.AllCategories
	}
	return strings.ToUpper(s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
