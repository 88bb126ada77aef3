package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrEmptyCart       = errors.New("cart is empty")
)
