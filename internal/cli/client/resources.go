package client

import (
	"context"
	"net/http"
	"net/url"
)

func byID(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]Profile, error) {
	var users []Profile
	err := c.do(ctx, call{method: http.MethodGet, path: "/users", out: &users})
	return users, err
}

// GetUser returns one account (admin only)
func (c *Client) GetUser(ctx context.Context, id string) (*Profile, error) {
	var user Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: byID("users", id), out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: byID("users", id)})
}

// ListCustomers returns all customers
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := c.do(ctx, call{method: http.MethodGet, path: "/customers", out: &customers})
	return customers, err
}

// GetCustomer returns a customer by ID
func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, call{method: http.MethodGet, path: byID("customers", id), out: &customer}); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer
func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, call{method: http.MethodPost, path: "/customers", body: in, out: &customer}); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer replaces a customer's fields
func (c *Client) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, call{method: http.MethodPut, path: byID("customers", id), body: in, out: &customer}); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer deletes a customer by ID
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: byID("customers", id)})
}

// ListProducts returns all products
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	err := c.do(ctx, call{method: http.MethodGet, path: "/products", out: &products})
	return products, err
}

// GetProduct returns a product by ID
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, call{method: http.MethodGet, path: byID("products", id), out: &product}); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, call{method: http.MethodPost, path: "/products", body: in, out: &product}); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's fields
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, call{method: http.MethodPut, path: byID("products", id), body: in, out: &product}); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deletes a product by ID
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: byID("products", id)})
}

// ListSales returns every sale (admin only)
func (c *Client) ListSales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	err := c.do(ctx, call{method: http.MethodGet, path: "/sales", out: &sales})
	return sales, err
}

// ListSalesByUser returns the sales bought by one user
func (c *Client) ListSalesByUser(ctx context.Context, userID string) ([]Sale, error) {
	var sales []Sale
	err := c.do(ctx, call{method: http.MethodGet, path: "/sales/users/" + url.PathEscape(userID), out: &sales})
	return sales, err
}

// GetSale returns a sale by ID
func (c *Client) GetSale(ctx context.Context, id string) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, call{method: http.MethodGet, path: byID("sales", id), out: &sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

// CreateSale records a sale
func (c *Client) CreateSale(ctx context.Context, in SaleInput) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, call{method: http.MethodPost, path: "/sales", body: in, out: &sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

// UpdateSale replaces a sale's fields
func (c *Client) UpdateSale(ctx context.Context, id string, in SaleInput) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, call{method: http.MethodPut, path: byID("sales", id), body: in, out: &sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

// DeleteSale deletes a sale by ID
func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: byID("sales", id)})
}

func rangeQuery(r DateRange) url.Values {
	q := url.Values{}
	if r.From != "" {
		q.Set("from", r.From)
	}
	if r.To != "" {
		q.Set("to", r.To)
	}
	return q
}

// AverageTicket returns the average sale value within r
func (c *Client) AverageTicket(ctx context.Context, r DateRange) (*AverageTicket, error) {
	var avg AverageTicket
	if err := c.do(ctx, call{method: http.MethodGet, path: "/reports/average-ticket", query: rangeQuery(r), out: &avg}); err != nil {
		return nil, err
	}
	return &avg, nil
}

// SalesBreakdown returns the revenue share per product within r
func (c *Client) SalesBreakdown(ctx context.Context, r DateRange) (*Breakdown, error) {
	var b Breakdown
	if err := c.do(ctx, call{method: http.MethodGet, path: "/reports/sales-breakdown", query: rangeQuery(r), out: &b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// Health returns the backend's liveness document
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, call{method: http.MethodGet, path: "/health", out: &h}); err != nil {
		return nil, err
	}
	return &h, nil
}
