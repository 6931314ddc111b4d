package dashboard

import (
	"context"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
	"github.com/baselog-dev/baselog/internal/notice"
)

// SamePasswordNotice is shown when the new password repeats the current one.
const SamePasswordNotice = "The new password cannot be the same as the current one."

// Profile returns the signed-in user.
func (d *Dashboard) Profile() (*client.Profile, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	return d.session.User(), nil
}

// ChangePassword validates and submits the profile password form.
func (d *Dashboard) ChangePassword(ctx context.Context, f forms.ChangePassword) error {
	if err := d.requireAuth(); err != nil {
		return err
	}
	if f.SameAsCurrent() {
		d.notify.Notify(notice.Error, SamePasswordNotice)
	}
	if err := f.Validate().Err(); err != nil {
		return err
	}

	err := d.api.ChangePassword(ctx, client.ChangePasswordRequest{
		CurrentPassword:         f.CurrentPassword,
		NewPassword:             f.NewPassword,
		NewPasswordConfirmation: f.NewPasswordConfirmation,
	})
	if err != nil {
		return d.fail(err, "Failed to update password, please try again.")
	}
	d.succeed("Password updated successfully!")
	return nil
}

// SignUp registers a new account. Signed-in users are sent to the products page.
func (d *Dashboard) SignUp(ctx context.Context, f forms.SignUp) (*client.Profile, error) {
	if d.session.Token() != "" {
		d.nav.Replace(RouteProducts)
		return nil, ErrAlreadySignedIn
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}

	p, err := d.api.Register(ctx, client.RegisterRequest{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
	})
	if err != nil {
		return nil, d.fail(err, "Failed to sign up, please try again.")
	}
	d.succeed("Account created successfully!")
	d.nav.Replace(RouteEntry)
	return p, nil
}
