package ledger

// Account is one party of the ledger. Its Balance is a cached aggregate of
// every transaction referencing it; the transaction set stays the source of
// truth and the balance is only ever derived from it, incrementally by
// Maintain or from scratch by Recalc.
type Account struct {
	ID          int64
	Name        string
	Description string
	Balance     Money
	Lifecycle   AccountLifecycle
	CTime       int64 // unix seconds, record creation
	MTime       int64 // unix seconds, last modification
}

// AccountData carries the caller-supplied fields for creating an account.
type AccountData struct {
	Name        string
	Description string
	Currency    string
}
