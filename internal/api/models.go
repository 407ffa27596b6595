package api

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a freshly issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 expiry of Token.
	ExpiresAt string `json:"expires_at"`
}

// Price accepts either a JSON number or a string holding one ("9.99").
// NaN, infinities and negative values are rejected with domain.ErrInvalidPrice.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return domain.ErrInvalidPrice
		}
		raw = bytes.TrimSpace([]byte(unquoted))
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.ErrInvalidPrice
	}
	*p = Price(v)
	return nil
}

// ProductRequest is the body of product create and replace calls.
type ProductRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       *Price `json:"price"       validate:"required"`
}

// ToInput converts the request to the service input type.
func (r ProductRequest) ToInput() service.ProductInput {
	var price float64
	if r.Price != nil {
		price = float64(*r.Price)
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       price,
	}
}

// ProductResponse is the public representation of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse is one page of the catalog.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
}

// ProductSearchResponse holds every product matching a search query.
type ProductSearchResponse struct {
	Items []ProductResponse `json:"items"`
}

// AddToCartRequest is the body of POST /cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// QuantityOrDefault returns the requested quantity or domain.DefaultQuantity.
func (r AddToCartRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return domain.DefaultQuantity
	}
	return *r.Quantity
}

// CartResponse lists the lines of the caller's cart.
type CartResponse struct {
	Items []domain.CartLine `json:"items"`
}

func productToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productsToResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(p))
	}
	return out
}

func cartToResponse(lines []domain.CartLine) CartResponse {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{Items: lines}
}
