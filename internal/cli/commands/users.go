package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
)

// NewUsersCmd creates the users command group (admin only)
func NewUsersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage accounts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List accounts",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				users, err := app.Dashboard.LoadUsers(cmd.Context())
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
					return nil
				}
				return printUsers(cmd, users)
			}),
		},
		newDeleteCmd(env, "user", func(cmd *cobra.Command, app *App, id string) error {
			return app.Dashboard.DeleteUser(cmd.Context(), id)
		}),
	)

	return cmd
}

func printUsers(cmd *cobra.Command, users []client.Profile) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.FullName(), u.Email, string(u.Role)})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
}
