package ledger

import "errors"

// Sentinel errors returned by the engine and the Money type. Callers match
// them with errors.Is; every operation wraps them with context describing
// the offending id or value.
var (
	// ErrAccountNotFound is returned when an operation references an
	// account id that does not exist in the store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when an operation references a
	// transaction id that does not exist in the store.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCurrencyMismatch is returned by binary Money operations whose
	// operands carry different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidMoneyFormat is returned when parsing a monetary amount
	// from text fails, or when the currency is not supported.
	ErrInvalidMoneyFormat = errors.New("invalid money format")
)
