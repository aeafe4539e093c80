package store

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrVariantNotFound    = errors.New("product variant not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAdminExists        = errors.New("admin already exists")
	ErrNotSignedIn        = errors.New("session not found or already signed out")
)
