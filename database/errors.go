package database

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotProjectOwner indicates the caller does not own the project.
	// Funding operations are restricted to the owning user.
	ErrNotProjectOwner = errors.New("caller is not the project owner")
	// ErrInvalidAmount indicates a negative or non-finite amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates an expense exceeding the available balance.
	ErrInsufficientFunds = errors.New("insufficient available funds")
)
