package domain

// DefaultQuantity is used when an add-to-cart request omits the quantity.
const DefaultQuantity = 1

// CartLine is one entry of a user's cart. A cart holds at most one line per
// product.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NewCartLine validates and builds a cart line.
func NewCartLine(productID string, quantity int) (CartLine, error) {
	if productID == "" {
		return CartLine{}, NewValidationError(FieldError{Field: "productId", Message: "is required"})
	}
	if quantity < 1 {
		return CartLine{}, ErrInvalidQuantity
	}
	return CartLine{ProductID: productID, Quantity: quantity}, nil
}

// FindLine returns the line for productID and whether it exists.
func FindLine(cart []CartLine, productID string) (CartLine, bool) {
	for _, line := range cart {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}
