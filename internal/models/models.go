package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Account roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config is the singleton row holding deployment-wide settings
type Config struct {
	BaseModel
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // generated on first start when JWT_SECRET is unset
}

// User is a dashboard account
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	FirstName    string `json:"firstName" gorm:"not null"`
	LastName     string `json:"lastName"`
	Role         string `json:"role" gorm:"type:varchar(8);not null;default:USER"`
}

// IsAdmin reports whether the account has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Customer is a person the business sells to
type Customer struct {
	BaseModel
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email" gorm:"not null"`
	CPF       string `json:"cpf" gorm:"uniqueIndex;not null"`
	BirthDate string `json:"birthDate" gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	Gender    string `json:"gender" gorm:"type:varchar(1);not null"`
	Phone     string `json:"phone" gorm:"not null"`
	Address   string `json:"address" gorm:"not null"`
}

// Product is an item for sale
type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`
}

// Sale records a quantity of one product sold to one user
type Sale struct {
	BaseModel
	ProductID string `json:"productId" gorm:"index;not null"`
	UserID    string `json:"userId" gorm:"index;not null"`
	Quantity  int    `json:"quantity" gorm:"not null"`

	// Relationships
	Product Product `json:"product" gorm:"foreignKey:ProductID"`
	User    User    `json:"user" gorm:"foreignKey:UserID"`
}

// Total is the sale value at the product's current price.
func (s *Sale) Total() float64 {
	return s.Product.Price * float64(s.Quantity)
}

// RevokedToken is a signed-out JWT, kept until it would have expired anyway
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;type:varchar(26)"`
	UserID    string    `gorm:"index"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Config{},
		&User{},
		&Customer{},
		&Product{},
		&Sale{},
		&RevokedToken{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// FindByID loads the row with the given primary key into dst.
// It returns gorm.ErrRecordNotFound when there is none.
func FindByID(db *gorm.DB, dst any, id string) error {
	return db.Where("id = ?", id).First(dst).Error
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
