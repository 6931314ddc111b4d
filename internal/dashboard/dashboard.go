// Package dashboard implements the dashboard pages on top of the session
// and the API client: route guards, client-side validation, notices and
// the in-memory lists each page keeps.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/notice"
	"github.com/baselog-dev/baselog/internal/session"
)

// Routes the dashboard navigates to.
const (
	RouteEntry     = session.EntryRoute
	RouteProducts  = "/products"
	RouteCustomers = "/customers"
	RouteSales     = "/sales"
	RouteUsers     = "/users"
	RouteProfile   = "/me"
)

var (
	ErrSessionLoading   = errors.New("session is still loading")
	ErrNotAuthenticated = errors.New("not signed in")
	ErrAdminRequired    = errors.New("administrator access required")
	ErrAlreadySignedIn  = errors.New("already signed in")
)

// Session is the read side of the session store.
type Session interface {
	Token() string
	User() *client.Profile
	Loading() bool
	IsAdmin() bool
}

// API is the slice of the backend client the pages use.
type API interface {
	Register(ctx context.Context, req client.RegisterRequest) (*client.Profile, error)
	ChangePassword(ctx context.Context, req client.ChangePasswordRequest) error

	ListUsers(ctx context.Context) ([]client.Profile, error)
	DeleteUser(ctx context.Context, id string) error

	ListCustomers(ctx context.Context) ([]client.Customer, error)
	GetCustomer(ctx context.Context, id string) (*client.Customer, error)
	CreateCustomer(ctx context.Context, in client.CustomerInput) (*client.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in client.CustomerInput) (*client.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]client.Product, error)
	GetProduct(ctx context.Context, id string) (*client.Product, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (*client.Product, error)
	UpdateProduct(ctx context.Context, id string, in client.ProductInput) (*client.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListSales(ctx context.Context) ([]client.Sale, error)
	ListSalesByUser(ctx context.Context, userID string) ([]client.Sale, error)
	GetSale(ctx context.Context, id string) (*client.Sale, error)
	CreateSale(ctx context.Context, in client.SaleInput) (*client.Sale, error)
	UpdateSale(ctx context.Context, id string, in client.SaleInput) (*client.Sale, error)
	DeleteSale(ctx context.Context, id string) error

	AverageTicket(ctx context.Context, r client.DateRange) (*client.AverageTicket, error)
	SalesBreakdown(ctx context.Context, r client.DateRange) (*client.Breakdown, error)
}

// Dashboard is shared by every page of one process.
type Dashboard struct {
	session Session
	api     API
	notify  notice.Notifier
	nav     session.Navigator

	products  collection[client.Product]
	customers collection[client.Customer]
	sales     collection[client.Sale]
	users     collection[client.Profile]
}

// New wires the pages to their collaborators.
func New(sess Session, api API, notifier notice.Notifier, nav session.Navigator) *Dashboard {
	if notifier == nil {
		notifier = notice.Discard
	}
	if nav == nil {
		nav = session.NavigatorFunc(func(string) {})
	}
	return &Dashboard{
		session:   sess,
		api:       api,
		notify:    notifier,
		nav:       nav,
		products:  collection[client.Product]{id: func(p client.Product) string { return p.ID }},
		customers: collection[client.Customer]{id: func(c client.Customer) string { return c.ID }},
		sales:     collection[client.Sale]{id: func(s client.Sale) string { return s.ID }},
		users:     collection[client.Profile]{id: func(u client.Profile) string { return u.ID }},
	}
}

// requireAuth sends signed-out users to the entry route.
func (d *Dashboard) requireAuth() error {
	if d.session.Token() != "" {
		return nil
	}
	if d.session.Loading() {
		return ErrSessionLoading
	}
	d.nav.Replace(RouteEntry)
	return ErrNotAuthenticated
}

// requireAdmin sends non-admins back to fallback before any request is made.
func (d *Dashboard) requireAdmin(fallback string) error {
	if err := d.requireAuth(); err != nil {
		return err
	}
	if !d.session.IsAdmin() {
		d.nav.Replace(fallback)
		return ErrAdminRequired
	}
	return nil
}

// fail reports a backend failure. Expired sessions were already announced
// by the client middleware.
func (d *Dashboard) fail(err error, message string) error {
	if !errors.Is(err, client.ErrUnauthorized) {
		d.notify.Notify(notice.Error, message)
	}
	return err
}

func (d *Dashboard) succeed(message string) {
	d.notify.Notify(notice.Success, message)
}

// collection is the list a page currently shows.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
}

func (c *collection[T]) set(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *collection[T]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if c.id(it) != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

func (c *collection[T]) upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.id(it) == c.id(item) {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}
