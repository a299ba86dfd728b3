package database

import "errors"

var (
	// ErrDuplicateEmail is returned when the users.email uniqueness
	// constraint fires. The constraint is the enforcement point; there is no
	// racy pre-check.
	ErrDuplicateEmail = errors.New("email already exists")

	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned for status values outside {Pending, Completed}.
	ErrInvalidStatus = errors.New("invalid booking status")
)
