package errors

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotRegistered     = errors.New("email is not registered")
	ErrInvalidCredential = errors.New("invalid or expired credential")
)
