package ledger

// SideLifecycle tracks the reconciliation state of one endpoint of a
// transaction. Each transaction carries two independent sides, so a single
// edit or deletion can be absorbed by each endpoint account at its own pace.
//
// The flags move through a fixed cycle:
//
//	all false → Valid (referenced account exists)
//	Valid → Applied (value folded into the account balance)
//	Applied → Changed (value edited; next pass applies the delta)
//	Valid → Deprecated (soft delete; next pass reverses the value)
//
// SideLifecycle is a plain by-value struct. Copies never alias: mutating a
// loaded transaction's flags cannot leak into another record.
type SideLifecycle struct {
	Valid      bool // the referenced account exists
	Applied    bool // the current value is included in the account balance
	Changed    bool // the value was edited since it was last applied
	Deprecated bool // soft-deleted, pending one reversal
}

// Pending reports whether a maintenance pass still owes this side work.
func (s SideLifecycle) Pending() bool {
	if s.Valid {
		return !s.Applied || s.Changed
	}
	return s.Deprecated
}

// TransactionLifecycle holds the two per-side flag sets of a transaction.
// A side whose account reference is External stays all-false forever: an
// external party has no balance to reconcile.
type TransactionLifecycle struct {
	From SideLifecycle
	To   SideLifecycle
}

// IsZero reports whether no flag was ever set on either side. Such records
// never took part in any balance and are eligible for hard deletion.
func (l TransactionLifecycle) IsZero() bool {
	return l.From == SideLifecycle{} && l.To == SideLifecycle{}
}

// AccountLifecycle is the account's own bookkeeping pair: Valid is set when
// the account is created, Updated once a maintenance or recalculation pass
// has successfully balanced it.
type AccountLifecycle struct {
	Valid   bool
	Updated bool
}

// Bit layout used to persist lifecycle values in a single integer column.
// The layout is a compile-time constant: it is never reconfigured at
// runtime, and unpacking always allocates fresh structs.
const (
	bitFromValid = 1 << iota
	bitFromApplied
	bitFromChanged
	bitFromDeprecated
	bitToValid
	bitToApplied
	bitToChanged
	bitToDeprecated
)

const (
	bitAccountValid = 1 << iota
	bitAccountUpdated
)

func packSide(s SideLifecycle, valid, applied, changed, deprecated int64) int64 {
	var bits int64
	if s.Valid {
		bits |= valid
	}
	if s.Applied {
		bits |= applied
	}
	if s.Changed {
		bits |= changed
	}
	if s.Deprecated {
		bits |= deprecated
	}
	return bits
}

// Pack encodes the lifecycle as an int64 for storage.
func (l TransactionLifecycle) Pack() int64 {
	return packSide(l.From, bitFromValid, bitFromApplied, bitFromChanged, bitFromDeprecated) |
		packSide(l.To, bitToValid, bitToApplied, bitToChanged, bitToDeprecated)
}

// UnpackTransactionLifecycle decodes a stored lifecycle integer.
func UnpackTransactionLifecycle(bits int64) TransactionLifecycle {
	return TransactionLifecycle{
		From: SideLifecycle{
			Valid:      bits&bitFromValid != 0,
			Applied:    bits&bitFromApplied != 0,
			Changed:    bits&bitFromChanged != 0,
			Deprecated: bits&bitFromDeprecated != 0,
		},
		To: SideLifecycle{
			Valid:      bits&bitToValid != 0,
			Applied:    bits&bitToApplied != 0,
			Changed:    bits&bitToChanged != 0,
			Deprecated: bits&bitToDeprecated != 0,
		},
	}
}

// Pack encodes the account lifecycle as an int64 for storage.
func (l AccountLifecycle) Pack() int64 {
	var bits int64
	if l.Valid {
		bits |= bitAccountValid
	}
	if l.Updated {
		bits |= bitAccountUpdated
	}
	return bits
}

// UnpackAccountLifecycle decodes a stored account lifecycle integer.
func UnpackAccountLifecycle(bits int64) AccountLifecycle {
	return AccountLifecycle{
		Valid:   bits&bitAccountValid != 0,
		Updated: bits&bitAccountUpdated != 0,
	}
}
