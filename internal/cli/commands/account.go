package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/forms"
)

// NewSignupCmd creates the signup command
func NewSignupCmd(env *Env) *cobra.Command {
	var f forms.SignUp

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			var err error
			if f.Password == "" {
				if f.Password, err = readPassword(env, cmd.ErrOrStderr(), "Password"); err != nil {
					return err
				}
				if f.ConfirmPassword, err = readPassword(env, cmd.ErrOrStderr(), "Confirm password"); err != nil {
					return err
				}
			} else if f.ConfirmPassword == "" {
				f.ConfirmPassword = f.Password
			}

			p, err := app.Dashboard.SignUp(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s). Run 'baselog login' to sign in.\n", p.FullName(), p.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&f.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")

	return cmd
}

// NewPasswdCmd creates the passwd command
func NewPasswdCmd(env *Env) *cobra.Command {
	var f forms.ChangePassword

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the signed-in account's password",
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			var err error
			errOut := cmd.ErrOrStderr()
			if f.CurrentPassword == "" {
				if f.CurrentPassword, err = readPassword(env, errOut, "Current password"); err != nil {
					return err
				}
			}
			if f.NewPassword == "" {
				if f.NewPassword, err = readPassword(env, errOut, "New password"); err != nil {
					return err
				}
				if f.NewPasswordConfirmation, err = readPassword(env, errOut, "Confirm new password"); err != nil {
					return err
				}
			} else if f.NewPasswordConfirmation == "" {
				f.NewPasswordConfirmation = f.NewPassword
			}

			return app.Dashboard.ChangePassword(cmd.Context(), f)
		}),
	}

	cmd.Flags().StringVar(&f.CurrentPassword, "current", "", "Current password")
	cmd.Flags().StringVar(&f.NewPassword, "new", "", "New password")
	cmd.Flags().StringVar(&f.NewPasswordConfirmation, "confirm", "", "New password confirmation (defaults to --new)")

	return cmd
}
