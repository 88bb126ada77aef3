package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAmountMismatch    = errors.New("order amount does not match catalog prices")
	ErrProductGone       = errors.New("a cart item no longer exists in the catalog")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrIncompleteAddress = errors.New("shipping address is incomplete")
)
