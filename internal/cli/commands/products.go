package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// NewProductsCmd creates the products command group
func NewProductsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List products",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				products, err := app.Dashboard.LoadProducts(cmd.Context())
				if err != nil {
					return err
				}
				if len(products) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
					return nil
				}
				return printProducts(cmd, products)
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a product",
			Args:  cobra.ExactArgs(1),
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				p, err := app.Dashboard.Product(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printProducts(cmd, []client.Product{*p})
			}),
		},
		newProductWriteCmd(env, false),
		newProductWriteCmd(env, true),
		newDeleteCmd(env, "product", func(cmd *cobra.Command, app *App, id string) error {
			return app.Dashboard.DeleteProduct(cmd.Context(), id)
		}),
	)

	return cmd
}

func newProductWriteCmd(env *Env, update bool) *cobra.Command {
	var f forms.Product

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Update a product"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = runner(env, func(cmd *cobra.Command, app *App, args []string) error {
		var (
			p   *client.Product
			err error
		)
		if update {
			id := args[0]
			current, gerr := app.Dashboard.Product(cmd.Context(), id)
			if gerr != nil {
				return gerr
			}
			flags := cmd.Flags()
			if !flags.Changed("name") {
				f.Name = current.Name
			}
			if !flags.Changed("description") {
				f.Description = current.Description
			}
			if !flags.Changed("price") {
				f.Price = money(current.Price)
			}
			p, err = app.Dashboard.UpdateProduct(cmd.Context(), id, f)
		} else {
			p, err = app.Dashboard.CreateProduct(cmd.Context(), f)
		}
		if err != nil {
			return err
		}
		return printProducts(cmd, []client.Product{*p})
	})

	cmd.Flags().StringVar(&f.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.Description, "description", "", "Product description")
	cmd.Flags().StringVar(&f.Price, "price", "", "Unit price, e.g. 12.50")

	return cmd
}

func printProducts(cmd *cobra.Command, products []client.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.ID, p.Name, money(p.Price), p.Description})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "PRICE", "DESCRIPTION"}, rows)
}

// newDeleteCmd builds a confirmed "delete <id>" subcommand.
func newDeleteCmd(env *Env, noun string, del func(cmd *cobra.Command, app *App, id string) error) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
			ok, err := confirm(env, fmt.Sprintf("Delete %s %s", noun, args[0]), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			return del(cmd, app, args[0])
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
