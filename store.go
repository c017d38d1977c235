package ledger

import "context"

// Query filters transaction searches. Zero fields are ignored; when ToTime
// is zero the range is open-ended. Searches never return records that were
// never valid on either side (those are administrative debris, visible only
// to NeverValid).
type Query struct {
	Tag         string // substring match on tags
	Description string // substring match on description
	FromTime    int64  // inclusive lower bound on happen-time
	ToTime      int64  // inclusive upper bound on happen-time
}

// Store is the persistence surface the engine drives. Implementations
// provide plain upsert/read primitives plus an atomic scope; the engine
// owns all reconciliation logic and never expects the store to interpret
// lifecycle bits.
//
// Read methods return ErrAccountNotFound / ErrTransactionNotFound (possibly
// wrapped) for missing ids. Save methods upsert, assigning a fresh id to
// records whose ID is zero and writing it back to the passed struct.
type Store interface {
	// Atomic runs fn inside one transaction scope: every read and write fn
	// performs through the passed Store is committed together, or rolled
	// back entirely when fn returns an error. The scope must hold
	// exclusive write access to at least the named accounts and every
	// transaction linked to them for its whole duration; a transaction's
	// lifecycle is written from both of its endpoint accounts, so locking
	// coarser than the lock set (a single writer at a time) is correct,
	// locking finer is not. External ids in accountIDs are ignored.
	Atomic(ctx context.Context, accountIDs []int64, fn func(Store) error) error

	Account(id int64) (*Account, error)
	Accounts() ([]*Account, error)
	SaveAccount(a *Account) error
	DeleteAccount(id int64) error

	Transaction(id int64) (*Transaction, error)
	SaveTransaction(t *Transaction) error
	// RemoveTransaction hard-deletes a record. Only the purge of
	// never-valid transactions may call it; deprecation is a flag change.
	RemoveTransaction(id int64) error

	// Inbound lists transactions whose To side is the account; Outbound
	// lists those whose From side is it.
	Inbound(accountID int64) ([]*Transaction, error)
	Outbound(accountID int64) ([]*Transaction, error)

	Transactions() ([]*Transaction, error)
	Search(q Query) ([]*Transaction, error)
	// NeverValid lists transactions whose lifecycle is all-false on both
	// sides.
	NeverValid() ([]*Transaction, error)
}
