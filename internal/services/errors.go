package services

import "errors"

// Common service errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrPasswordRequired    = errors.New("password is required")
	ErrEmployeeIDImmutable = errors.New("employee id cannot be changed once assigned")
)
