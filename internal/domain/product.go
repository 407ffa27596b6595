package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrEmptyProductName is returned when a product has no name.
var ErrEmptyProductName = fmt.Errorf("%w: product name cannot be empty", ErrValidation)

// Product is an item in the catalog. Names are unique across the catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct creates a validated Product with fresh timestamps.
func NewProduct(name, description, category string, price float64) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}
	return ValidatePrice(p.Price)
}

// ValidatePrice rejects negative, NaN and infinite prices.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Replace overwrites the mutable fields of p and bumps UpdatedAt.
func (p *Product) Replace(name, description, category string, price float64) error {
	updated := *p
	updated.Name = name
	updated.Description = description
	updated.Category = category
	updated.Price = price
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now().UTC()
	*p = updated
	return nil
}
