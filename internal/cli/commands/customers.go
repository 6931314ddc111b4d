package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// NewCustomersCmd creates the customers command group
func NewCustomersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List customers",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				customers, err := app.Dashboard.LoadCustomers(cmd.Context())
				if err != nil {
					return err
				}
				if len(customers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No customers found.")
					return nil
				}
				return printCustomers(cmd, customers)
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a customer",
			Args:  cobra.ExactArgs(1),
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				c, err := app.Dashboard.Customer(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printCustomers(cmd, []client.Customer{*c})
			}),
		},
		newCustomerWriteCmd(env, false),
		newCustomerWriteCmd(env, true),
		newDeleteCmd(env, "customer", func(cmd *cobra.Command, app *App, id string) error {
			return app.Dashboard.DeleteCustomer(cmd.Context(), id)
		}),
	)

	return cmd
}

func newCustomerWriteCmd(env *Env, update bool) *cobra.Command {
	var f forms.Customer

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Update a customer"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = runner(env, func(cmd *cobra.Command, app *App, args []string) error {
		var (
			c   *client.Customer
			err error
		)
		if update {
			id := args[0]
			current, gerr := app.Dashboard.Customer(cmd.Context(), id)
			if gerr != nil {
				return gerr
			}
			keep := func(flag string, dst *string, v string) {
				if !cmd.Flags().Changed(flag) {
					*dst = v
				}
			}
			keep("name", &f.Name, current.Name)
			keep("email", &f.Email, current.Email)
			keep("cpf", &f.CPF, current.CPF)
			keep("birth-date", &f.BirthDate, current.BirthDate)
			keep("gender", &f.Gender, current.Gender)
			keep("phone", &f.Phone, current.Phone)
			keep("address", &f.Address, current.Address)
			c, err = app.Dashboard.UpdateCustomer(cmd.Context(), id, f)
		} else {
			c, err = app.Dashboard.CreateCustomer(cmd.Context(), f)
		}
		if err != nil {
			return err
		}
		return printCustomers(cmd, []client.Customer{*c})
	})

	flags := cmd.Flags()
	flags.StringVar(&f.Name, "name", "", "Full name")
	flags.StringVar(&f.Email, "email", "", "Email address")
	flags.StringVar(&f.CPF, "cpf", "", "CPF in the form 000.000.000-00")
	flags.StringVar(&f.BirthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	flags.StringVar(&f.Gender, "gender", "", "Gender: M, F or O")
	flags.StringVar(&f.Phone, "phone", "", "Mobile phone, e.g. (11) 91234-5678")
	flags.StringVar(&f.Address, "address", "", "Postal address")

	return cmd
}

func printCustomers(cmd *cobra.Command, customers []client.Customer) error {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.ID, c.Name, c.Email, c.CPF, c.Phone, c.BirthDate})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "EMAIL", "CPF", "PHONE", "BIRTH DATE"}, rows)
}
