package services

import (
	"errors"
	"time"
)

var (
	// ErrEmptyOrder rejects placement with no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrAccessDenied means the requester may not act on the target resource.
	ErrAccessDenied = errors.New("access denied")

	// ErrOrderNotFound means the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductNotFound means the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken means the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func nowUTC() time.Time {
	return time.Now().UTC()
}
