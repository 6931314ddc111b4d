package forms

// SignIn is the login form.
type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f SignIn) Validate() FieldErrors {
	return check(f)
}

// SignUp is the account registration form.
type SignUp struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=60"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8,max=60,eqfield=Password"`
}

func (f SignUp) Validate() FieldErrors {
	return check(f)
}

// ChangePassword is the profile page password form.
type ChangePassword struct {
	CurrentPassword         string `json:"currentPassword" validate:"required,min=8,max=60"`
	NewPassword             string `json:"newPassword" validate:"required,min=8,max=60,nefield=CurrentPassword"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation" validate:"required,min=8,max=60,eqfield=NewPassword"`
}

func (f ChangePassword) Validate() FieldErrors {
	return check(f)
}

// SameAsCurrent reports the case the profile page calls out with its own notice.
func (f ChangePassword) SameAsCurrent() bool {
	return f.NewPassword != "" && f.NewPassword == f.CurrentPassword
}
