package forms

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Product is the create/edit product form. Price is kept as typed so that
// non-numeric input can be reported instead of silently parsed.
type Product struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required,numeric"`
}

func (f Product) Validate() FieldErrors {
	errs := check(f)
	if _, bad := errs["price"]; !bad {
		if p, _ := strconv.ParseFloat(f.Price, 64); p <= 0 {
			errs["price"] = "must be greater than zero"
		}
	}
	return errs
}

// PriceValue returns the price rounded to cents. Call only after Validate.
func (f Product) PriceValue() float64 {
	p, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	return math.Round(p*100) / 100
}

// Customer is the create/edit customer form.
type Customer struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	CPF       string `json:"cpf" validate:"required,cpf"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"required,oneof=M F O"`
	Phone     string `json:"phone" validate:"required,br_mobile"`
	Address   string `json:"address" validate:"required"`
}

func (f Customer) Validate() FieldErrors {
	errs := check(f)
	if _, bad := errs["birthDate"]; !bad {
		if d, _ := time.Parse(DateLayout, f.BirthDate); d.After(time.Now()) {
			errs["birthDate"] = "must not be in the future"
		}
	}
	return errs
}

// Sale is the create/edit sale form.
type Sale struct {
	ProductID string `json:"productId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	Quantity  string `json:"quantity" validate:"required,number"`
}

func (f Sale) Validate() FieldErrors {
	errs := check(f)
	if _, bad := errs["quantity"]; !bad {
		if q, err := strconv.Atoi(f.Quantity); err != nil || q < 1 {
			errs["quantity"] = "must be at least 1"
		}
	}
	return errs
}

// QuantityValue returns the parsed quantity. Call only after Validate.
func (f Sale) QuantityValue() int {
	q, _ := strconv.Atoi(f.Quantity)
	return q
}

// ReportRange bounds the report endpoints. Both ends are optional.
type ReportRange struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

func (f ReportRange) Validate() FieldErrors {
	errs := check(f)
	if len(errs) == 0 && f.From != "" && f.To != "" && f.To < f.From {
		errs["to"] = "must not be before from"
	}
	return errs
}
