package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/cli/config"
	"github.com/baselog-dev/baselog/internal/forms"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a baselog backend",
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			return runLogin(cmd, env, app, email, password)
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set "+config.EnvEmail+")")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set "+config.EnvPassword+", will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, env *Env, app *App, email, password string) error {
	var err error
	if email == "" {
		email = app.Config.Email
	}
	if email == "" {
		if email, err = promptText(env, "Email"); err != nil {
			return err
		}
	}
	if password == "" {
		password = os.Getenv(config.EnvPassword)
	}
	if password == "" {
		if password, err = readPassword(env, cmd.ErrOrStderr(), "Password"); err != nil {
			return err
		}
	}

	form := forms.SignIn{Email: email, Password: password}
	if err := form.Validate().Err(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Signing in to %s...\n", app.Client.BaseURL())
	if err := app.Session.SignIn(cmd.Context(), client.Credentials{Email: form.Email, Password: form.Password}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if app.Config.Email != email && env.SaveConfig != nil {
		app.Config.Email = email
		if err := env.SaveConfig(app.Config); err != nil {
			app.Log.Warn().Err(err).Msg("Failed to remember email")
		}
	}

	u := app.Session.User()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", u.FullName(), u.Email)
	if app.Session.IsAdmin() {
		fmt.Fprintln(out, "  Role: Admin")
	}
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			app.Session.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		}),
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			u, err := app.Dashboard.Profile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:    %s\n", u.ID)
			fmt.Fprintf(out, "Name:  %s\n", u.FullName())
			fmt.Fprintf(out, "Email: %s\n", u.Email)
			fmt.Fprintf(out, "Role:  %s\n", u.Role)
			return nil
		}),
	}
}
