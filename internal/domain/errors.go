package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreURLTaken is returned when a tenant registration reuses an
	// already registered store URL.
	ErrStoreURLTaken = errors.New("shopify store already registered")

	// ErrEmailTaken is returned when a user registration reuses an email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidDateRange is returned when a dashboard date filter cannot be
	// parsed. This is a client error, not a server fault.
	ErrInvalidDateRange = errors.New("invalid date filter")
)
