package dashboard

import (
	"context"

	"github.com/baselog-dev/baselog/internal/cli/client"
)

// LoadUsers fetches every account (admin only).
func (d *Dashboard) LoadUsers(ctx context.Context) ([]client.Profile, error) {
	if err := d.requireAdmin(RouteEntry); err != nil {
		return nil, err
	}
	users, err := d.api.ListUsers(ctx)
	if err != nil {
		return nil, d.fail(err, "Failed to load users, please try again.")
	}
	d.users.set(users)
	return d.users.all(), nil
}

// Users returns the last loaded account list.
func (d *Dashboard) Users() []client.Profile {
	return d.users.all()
}

// DeleteUser removes an account (admin only).
func (d *Dashboard) DeleteUser(ctx context.Context, id string) error {
	if err := d.requireAdmin(RouteEntry); err != nil {
		return err
	}
	if err := d.api.DeleteUser(ctx, id); err != nil {
		return d.fail(err, "Failed to remove user, please try again.")
	}
	d.users.remove(id)
	d.succeed("User removed successfully!")
	return nil
}
