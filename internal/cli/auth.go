package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/expenseapi"
	"expensedash/internal/storage"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the token for the profile",
	Long: `Sign in to the expense backend and save the returned token locally.

The password is read from --password, then EXPENSEDASH_PASSWORD, then
standard input. With --token an existing token is saved without signing in.

Examples:
  expensedash login -u asha
  expensedash login --profile work -u asha
  expensedash login --token eyJhbGciOi...`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token for the profile",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

var (
	authUsername string
	authPassword string
	authEmail    string
	authToken    string
)

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)

	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password (prefer EXPENSEDASH_PASSWORD or stdin)")
	loginCmd.Flags().StringVar(&authToken, "token", "", "Save this token instead of signing in")

	registerCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Password (prefer EXPENSEDASH_PASSWORD or stdin)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	cred := storage.Credential{Profile: cfg.Profile, Token: strings.TrimSpace(authToken)}
	if cred.Token == "" {
		if authUsername == "" {
			return errors.New("--username is required")
		}
		password, err := readPassword(cmd, authPassword)
		if err != nil {
			return err
		}
		res, err := app.API.Login(ctx, authUsername, password)
		if err != nil {
			return fmt.Errorf("login failed: %s", errorText(err))
		}
		cred.Token = res.JWT
		cred.Username = authUsername
		if res.UserID != nil {
			cred.UserID = fmt.Sprint(res.UserID)
		}
	}

	if err := app.Store.Save(ctx, cred); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in (profile %q)\n", cfg.Profile)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	if _, err := app.Store.Load(ctx, cfg.Profile); errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "Not signed in (profile %q)\n", cfg.Profile)
		return nil
	}
	if err := app.Store.Delete(ctx, cfg.Profile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed out (profile %q)\n", cfg.Profile)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	password, err := readPassword(cmd, authPassword)
	if err != nil {
		return err
	}
	reg, err := app.API.Register(ctx, authUsername, authEmail, password)
	if err != nil {
		return fmt.Errorf("registration failed: %s", errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), reg)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run \"expensedash login -u %s\" to sign in.\n", reg.Username, reg.Username)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	saved, err := app.Store.Load(ctx, cfg.Profile)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) && cfg.APIToken == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Not signed in (profile %q)\n", cfg.Profile)
		return nil
	}

	p, err := app.API.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %s", errorText(err))
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), p)
	}

	t := newTable(cmd.OutOrStdout())
	fmt.Fprintf(t, "Profile\t%s\n", cfg.Profile)
	fmt.Fprintf(t, "Username\t%s\n", p.Username)
	fmt.Fprintf(t, "Email\t%s\n", p.Email)
	fmt.Fprintf(t, "Monthly limit\t%s\n", money(p.MonthlyLimit))
	if !saved.SavedAt.IsZero() {
		fmt.Fprintf(t, "Signed in\t%s\n", saved.SavedAt.Format(time.RFC1123))
	}
	return t.Flush()
}

// readPassword returns flag, then EXPENSEDASH_PASSWORD, then the first line
// of standard input.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("EXPENSEDASH_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

// errorText is the message shown for a failed backend call.
func errorText(err error) string {
	if errors.Is(err, expenseapi.ErrInvalidInput) {
		return err.Error()
	}
	return expenseapi.UserMessage(err)
}
