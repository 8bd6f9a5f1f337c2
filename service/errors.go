package service

import "errors"

// Sentinel errors shared between the service layer and its storage contract.
// Duplicate errors are expected races: repositories return them when a unique
// constraint fires and services recover by re-reading state.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrDuplicateReceipt  = errors.New("login bonus already received")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
