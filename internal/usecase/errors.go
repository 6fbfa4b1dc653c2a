package usecase

import "errors"

var (
	ErrInvalidBuyerID       = errors.New("invalid buyer ID")
	ErrInvalidOrderID       = errors.New("invalid order ID")
	ErrEmptyOrderRequest    = errors.New("no order items")
	ErrInvalidItem          = errors.New("invalid item")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrCompanyMismatch      = errors.New("product does not belong to the selected company")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrNotAuthorized        = errors.New("not authorized for this order")
	ErrEmptyNote            = errors.New("note text cannot be empty")
)
