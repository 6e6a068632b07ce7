package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidation       = errors.New("contract validation failed")
	ErrDuplicate        = errors.New("duplicate contract number")
)
