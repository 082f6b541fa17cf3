package models

import "errors"

// Sentinel errors surfaced by the ledger core. Validation errors abort the
// whole atomic unit and reach the caller unchanged; ErrAtomicWriteFailed is
// only returned after the store has exhausted its retry.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientData  = errors.New("not enough data points to forecast")
	ErrAtomicWriteFailed = errors.New("atomic write failed")
	ErrNotFound          = errors.New("record not found")
)
