package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSellerRoleRequired = errors.New("seller role required")
	ErrProductNotReported = errors.New("product is not reported")
	ErrProductCompleted   = errors.New("product already completed")
)
