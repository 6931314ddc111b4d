package dashboard

import (
	"context"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// LoadCustomers fetches the customer list.
func (d *Dashboard) LoadCustomers(ctx context.Context) ([]client.Customer, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	customers, err := d.api.ListCustomers(ctx)
	if err != nil {
		return nil, d.fail(err, "Failed to load customers, please try again.")
	}
	d.customers.set(customers)
	return d.customers.all(), nil
}

// Customers returns the last loaded customer list.
func (d *Dashboard) Customers() []client.Customer {
	return d.customers.all()
}

// Customer shows one customer.
func (d *Dashboard) Customer(ctx context.Context, id string) (*client.Customer, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	c, err := d.api.GetCustomer(ctx, id)
	if err != nil {
		return nil, d.fail(err, "Failed to load customer, please try again.")
	}
	return c, nil
}

// CreateCustomer validates and submits the form (admin only).
func (d *Dashboard) CreateCustomer(ctx context.Context, f forms.Customer) (*client.Customer, error) {
	if err := d.requireAdmin(RouteCustomers); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	c, err := d.api.CreateCustomer(ctx, customerInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to create customer, please try again.")
	}
	d.customers.upsert(*c)
	d.succeed("Customer created successfully!")
	d.nav.Replace(RouteCustomers)
	return c, nil
}

// UpdateCustomer validates and submits the edit form (admin only).
func (d *Dashboard) UpdateCustomer(ctx context.Context, id string, f forms.Customer) (*client.Customer, error) {
	if err := d.requireAdmin(RouteCustomers); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	c, err := d.api.UpdateCustomer(ctx, id, customerInput(f))
	if err != nil {
		return nil, d.fail(err, "Failed to update customer, please try again.")
	}
	d.customers.upsert(*c)
	d.succeed("Customer updated successfully!")
	d.nav.Replace(RouteCustomers + "/" + id)
	return c, nil
}

// DeleteCustomer removes a customer (admin only).
func (d *Dashboard) DeleteCustomer(ctx context.Context, id string) error {
	if err := d.requireAdmin(RouteCustomers); err != nil {
		return err
	}
	if err := d.api.DeleteCustomer(ctx, id); err != nil {
		return d.fail(err, "Failed to remove customer, please try again.")
	}
	d.customers.remove(id)
	d.succeed("Customer removed successfully!")
	return nil
}

func customerInput(f forms.Customer) client.CustomerInput {
	return client.CustomerInput{
		Name:      f.Name,
		Email:     f.Email,
		CPF:       f.CPF,
		BirthDate: f.BirthDate,
		Gender:    f.Gender,
		Phone:     f.Phone,
		Address:   f.Address,
	}
}
