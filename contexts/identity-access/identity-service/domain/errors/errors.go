package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidRole            = errors.New("invalid role")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrRoleAlreadyAssigned    = errors.New("role already assigned")
	ErrNotSeller              = errors.New("user is not a seller")
	ErrSellerDeletionOnly     = errors.New("only seller records can be deleted")
)
