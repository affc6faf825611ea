package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientLimit          = errors.New("account does not have available limit for this debit amount")
	ErrUnknownBankTransactionType = errors.New("unknown bank transaction type")
	ErrNotFound                   = errors.New("account not found")
	ErrInvalidTransaction         = errors.New("invalid transaction")
	ErrStorage                    = errors.New("storage failure")
	ErrBalanceOverflow            = errors.New("credit would exceed the maximum balance")
)

// ValidationError describes which field of a transaction payload was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTransaction
}

// StorageError wraps any failure coming from the database. It matches both
// ErrStorage and the underlying driver error.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
