package errors

import "errors"

var (
	ErrInvalidCaller = errors.New("invalid caller")
	ErrUnknownAction = errors.New("unknown action")
)
