package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// NewSalesCmd creates the sales command group
func NewSalesCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sales",
		Aliases: []string{"sale"},
		Short:   "Manage sales",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List sales (your own unless you are an admin)",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				sales, err := app.Dashboard.LoadSales(cmd.Context())
				if err != nil {
					return err
				}
				if len(sales) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sales found.")
					return nil
				}
				return printSales(cmd, sales)
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a sale",
			Args:  cobra.ExactArgs(1),
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				s, err := app.Dashboard.Sale(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printSales(cmd, []client.Sale{*s})
			}),
		},
		newSaleWriteCmd(env, false),
		newSaleWriteCmd(env, true),
		newDeleteCmd(env, "sale", func(cmd *cobra.Command, app *App, id string) error {
			return app.Dashboard.DeleteSale(cmd.Context(), id)
		}),
	)

	return cmd
}

func newSaleWriteCmd(env *Env, update bool) *cobra.Command {
	var f forms.Sale

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a sale",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Update a sale"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = runner(env, func(cmd *cobra.Command, app *App, args []string) error {
		ctx := cmd.Context()
		if update {
			current, err := app.Dashboard.Sale(ctx, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("product") {
				f.ProductID = current.ProductID
			}
			if !cmd.Flags().Changed("user") {
				f.UserID = current.UserID
			}
			if !cmd.Flags().Changed("quantity") {
				f.Quantity = strconv.Itoa(current.Quantity)
			}
		}

		if (f.ProductID == "" || f.UserID == "") && env.interactive() {
			if err := pickSaleOptions(cmd, env, app, &f); err != nil {
				return err
			}
		}

		var (
			s   *client.Sale
			err error
		)
		if update {
			s, err = app.Dashboard.UpdateSale(ctx, args[0], f)
		} else {
			s, err = app.Dashboard.CreateSale(ctx, f)
		}
		if err != nil {
			return err
		}
		return printSales(cmd, []client.Sale{*s})
	})

	cmd.Flags().StringVar(&f.ProductID, "product", "", "Product ID (prompted when omitted)")
	cmd.Flags().StringVar(&f.UserID, "user", "", "Buyer user ID (prompted when omitted)")
	cmd.Flags().StringVar(&f.Quantity, "quantity", "1", "Quantity sold")

	return cmd
}

// pickSaleOptions fills the missing product and buyer from interactive lists.
func pickSaleOptions(cmd *cobra.Command, env *Env, app *App, f *forms.Sale) error {
	opts, err := app.Dashboard.SaleFormOptions(cmd.Context())
	if err != nil {
		return err
	}

	if f.ProductID == "" && len(opts.Products) > 0 {
		labels := make([]string, len(opts.Products))
		for i, p := range opts.Products {
			labels[i] = fmt.Sprintf("%s (%s)", p.Name, money(p.Price))
		}
		i, err := choose(env, "Product", labels)
		if err != nil {
			return err
		}
		f.ProductID = opts.Products[i].ID
	}

	if f.UserID == "" && len(opts.Users) > 0 {
		labels := make([]string, len(opts.Users))
		for i, u := range opts.Users {
			labels[i] = fmt.Sprintf("%s <%s>", u.FullName(), u.Email)
		}
		i, err := choose(env, "Buyer", labels)
		if err != nil {
			return err
		}
		f.UserID = opts.Users[i].ID
	}
	return nil
}

func printSales(cmd *cobra.Command, sales []client.Sale) error {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		product, buyer, total := s.ProductID, s.UserID, ""
		if s.Product != nil {
			product = s.Product.Name
			total = money(s.Product.Price * float64(s.Quantity))
		}
		if s.User != nil {
			buyer = s.User.FullName()
		}
		rows = append(rows, []string{
			s.ID,
			product,
			buyer,
			strconv.Itoa(s.Quantity),
			total,
			s.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "PRODUCT", "BUYER", "QTY", "TOTAL", "CREATED AT"}, rows)
}
