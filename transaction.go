package ledger

import "slices"

// External is the sentinel account id for a party outside the modeled
// system. Money moving to or from External changes no counter-account
// balance, and the external side of a transaction never acquires lifecycle
// flags.
const External int64 = -1

// FixTime is the sentinel happen-time of synthetic balance-fix
// transactions, marking them as non-chronological.
const FixTime int64 = 1

// FixTag tags every synthetic transaction created by Fix.
const FixTag = "balance fix"

// Transaction is one double-entry record: Value moves from the From account
// to the To account. Either endpoint may be External.
//
// PrevValue holds the value superseded by the most recent edit; it stays
// zero until the first edit. A maintenance pass uses it to apply the edit
// as a delta instead of replaying history.
type Transaction struct {
	ID          int64
	Ref         string // immutable audit reference, assigned at creation
	From        int64  // source account id, or External
	To          int64  // destination account id, or External
	Value       Money
	PrevValue   Money
	Description string
	Tags        []string
	Lifecycle   TransactionLifecycle
	HTime       int64 // unix seconds, when the transfer actually happened
	CTime       int64 // unix seconds, record creation
	MTime       int64 // unix seconds, last modification
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// TransactionData carries the caller-supplied fields for creating or
// updating a transaction.
type TransactionData struct {
	From        int64 // source account id, or External
	To          int64 // destination account id, or External
	Value       Money
	Description string
	Tags        []string
	HTime       int64 // 0 defaults to the current time
}
