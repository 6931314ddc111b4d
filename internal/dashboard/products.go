package dashboard

import (
	"context"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// LoadProducts fetches the product list and keeps it as the page state.
func (d *Dashboard) LoadProducts(ctx context.Context) ([]client.Product, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	products, err := d.api.ListProducts(ctx)
	if err != nil {
		return nil, d.fail(err, "Failed to load products, please try again.")
	}
	d.products.set(products)
	return d.products.all(), nil
}

// Products returns the last loaded product list.
func (d *Dashboard) Products() []client.Product {
	return d.products.all()
}

// Product shows one product.
func (d *Dashboard) Product(ctx context.Context, id string) (*client.Product, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	p, err := d.api.GetProduct(ctx, id)
	if err != nil {
		return nil, d.fail(err, "Failed to load product, please try again.")
	}
	return p, nil
}

// CreateProduct validates and submits the form (admin only).
func (d *Dashboard) CreateProduct(ctx context.Context, f forms.Product) (*client.Product, error) {
	if err := d.requireAdmin(RouteProducts); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	p, err := d.api.CreateProduct(ctx, productInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to create product, please try again.")
	}
	d.products.upsert(*p)
	d.succeed("Product created successfully!")
	d.nav.Replace(RouteProducts)
	return p, nil
}

// UpdateProduct validates and submits the edit form (admin only).
func (d *Dashboard) UpdateProduct(ctx context.Context, id string, f forms.Product) (*client.Product, error) {
	if err := d.requireAdmin(RouteProducts); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	p, err := d.api.UpdateProduct(ctx, id, productInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to update product, please try again.")
	}
	d.products.upsert(*p)
	d.succeed("Product updated successfully!")
	d.nav.Replace(RouteProducts + "/" + id)
	return p, nil
}

// DeleteProduct removes a product and drops it from the shown list (admin only).
func (d *Dashboard) DeleteProduct(ctx context.Context, id string) error {
	if err := d.requireAdmin(RouteProducts); err != nil {
		return err
	}
	if err := d.api.DeleteProduct(ctx, id); err != nil {
		return d.fail(err, "Failed to remove product, please try again.")
	}
	d.products.remove(id)
	d.succeed("Product removed successfully!")
	return nil
}

func productInput(f forms.Product) client.ProductInput {
	return client.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.PriceValue(),
	}
}
