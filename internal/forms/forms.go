// Package forms holds the dashboard's client-side form models and the
// rules that gate submission before anything reaches the network.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire and input format for calendar dates.
const DateLayout = "2006-01-02"

var (
	// pt-BR mobile numbers, with optional country and area code
	brMobilePattern = regexp.MustCompile(`^((\+?55 ?[1-9]{2} ?)|(\+?55 ?\([1-9]{2}\) ?)|(0[1-9]{2} ?)|(\([1-9]{2}\) ?)|([1-9]{2} ?))((\d{4}-?\d{4})|(9[1-9]\d{3}-?\d{4}))$`)
	cpfPattern      = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("invalid form")

// FieldErrors maps a field name (as sent on the wire) to a message.
type FieldErrors map[string]string

// ValidationError reports every field that failed validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Err returns nil when fe is empty and a *ValidationError otherwise.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterRules installs the custom rules used by the form tags on v.
// The backend registers them on gin's binding engine too.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("br_mobile", func(fl validator.FieldLevel) bool {
		return brMobilePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpfPattern.MatchString(fl.Field().String())
	})
}

// check runs the struct tags of form and converts failures to FieldErrors.
func check(form any) FieldErrors {
	errs := FieldErrors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "max":
		if fe.Kind() == reflect.String {
			return "must be between 8 and 60 characters"
		}
		return fmt.Sprintf("must respect %s=%s", fe.Tag(), fe.Param())
	case "eqfield":
		return "does not match"
	case "nefield":
		return "must differ from the current password"
	case "numeric":
		return "must be a number"
	case "number":
		return "must be a whole number"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "br_mobile":
		return "must be a valid mobile phone number"
	case "cpf":
		return "must be a CPF in the form 000.000.000-00"
	default:
		return "is invalid"
	}
}
