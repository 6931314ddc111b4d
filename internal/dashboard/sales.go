package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// LoadSales fetches every sale for admins and the user's own sales otherwise.
func (d *Dashboard) LoadSales(ctx context.Context) ([]client.Sale, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}

	var (
		sales []client.Sale
		err   error
	)
	if d.session.IsAdmin() {
		sales, err = d.api.ListSales(ctx)
	} else if u := d.session.User(); u != nil {
		sales, err = d.api.ListSalesByUser(ctx, u.ID)
	}
	if err != nil {
		return nil, d.fail(err, "Failed to load sales, please try again.")
	}

	d.sales.set(sales)
	return d.sales.all(), nil
}

// Sales returns the last loaded sale list.
func (d *Dashboard) Sales() []client.Sale {
	return d.sales.all()
}

// Sale shows one sale.
func (d *Dashboard) Sale(ctx context.Context, id string) (*client.Sale, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	s, err := d.api.GetSale(ctx, id)
	if err != nil {
		return nil, d.fail(err, "Failed to load sale, please try again.")
	}
	return s, nil
}

// SaleOptions are the choices offered by the sale form.
type SaleOptions struct {
	Products []client.Product
	Users    []client.Profile
}

// SaleFormOptions loads products and buyers for the sale form (admin only).
func (d *Dashboard) SaleFormOptions(ctx context.Context) (*SaleOptions, error) {
	if err := d.requireAdmin(RouteSales); err != nil {
		return nil, err
	}

	var (
		opts                  SaleOptions
		productsErr, usersErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts.Products, productsErr = d.api.ListProducts(gctx)
		return productsErr
	})
	g.Go(func() error {
		opts.Users, usersErr = d.api.ListUsers(gctx)
		return usersErr
	})
	// Wait reports only the first failure; a 401 from either fetch must
	// stay visible to fail.
	if g.Wait() != nil {
		return nil, d.fail(errors.Join(productsErr, usersErr), "Failed to load sale form, please try again.")
	}
	return &opts, nil
}

// CreateSale validates and submits the form (admin only).
func (d *Dashboard) CreateSale(ctx context.Context, f forms.Sale) (*client.Sale, error) {
	if err := d.requireAdmin(RouteSales); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	s, err := d.api.CreateSale(ctx, saleInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to create sale, please try again.")
	}
	d.sales.upsert(*s)
	d.succeed("Sale created successfully!")
	d.nav.Replace(RouteSales)
	return s, nil
}

// UpdateSale validates and submits the edit form (admin only).
func (d *Dashboard) UpdateSale(ctx context.Context, id string, f forms.Sale) (*client.Sale, error) {
	if err := d.requireAdmin(RouteSales); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	s, err := d.api.UpdateSale(ctx, id, saleInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to update sale, please try again.")
	}
	d.sales.upsert(*s)
	d.succeed("Sale updated successfully!")
	d.nav.Replace(RouteSales + "/" + id)
	return s, nil
}

// DeleteSale removes a sale (admin only).
func (d *Dashboard) DeleteSale(ctx context.Context, id string) error {
	if err := d.requireAdmin(RouteSales); err != nil {
		return err
	}
	if err := d.api.DeleteSale(ctx, id); err != nil {
		return d.fail(err, "Failed to remove sale, please try again.")
	}
	d.sales.remove(id)
	d.succeed("Sale removed successfully!")
	return nil
}

func saleInput(f forms.Sale) client.SaleInput {
	return client.SaleInput{
		ProductID: f.ProductID,
		UserID:    f.UserID,
		Quantity:  f.QuantityValue(),
	}
}
