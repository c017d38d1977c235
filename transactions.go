package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// validateSides sets each side's Valid flag to whether the referenced
// account currently exists. An External side is not applicable and keeps
// its flags untouched (forever all-false).
func validateSides(st Store, t *Transaction) error {
	if t.From != External {
		ok, err := accountExists(st, t.From)
		if err != nil {
			return err
		}
		t.Lifecycle.From.Valid = ok
	}
	if t.To != External {
		ok, err := accountExists(st, t.To)
		if err != nil {
			return err
		}
		t.Lifecycle.To.Valid = ok
	}
	return nil
}

// CreateTransaction records a new transaction and validates it against the
// existing accounts. The new record starts with a zero PrevValue and an
// all-false lifecycle; validation then marks each side whose account exists.
func (e *Engine) CreateTransaction(ctx context.Context, data TransactionData) (*Transaction, error) {
	var tx *Transaction
	err := e.store.Atomic(ctx, lockSet(data.From, data.To), func(st Store) error {
		t, err := e.createTransaction(st, data)
		tx = t
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	e.log.Info("transaction created", "id", tx.ID, "from", tx.From, "to", tx.To, "value", tx.Value.Amount())
	return tx, nil
}

// createTransaction is the in-scope creation path, shared with Fix.
func (e *Engine) createTransaction(st Store, data TransactionData) (*Transaction, error) {
	if err := ValidateCurrency(data.Value.Currency()); err != nil {
		return nil, err
	}
	now := e.unix()
	htime := data.HTime
	if htime == 0 {
		htime = now
	}
	t := &Transaction{
		Ref:         uuid.NewString(),
		From:        data.From,
		To:          data.To,
		Value:       data.Value,
		PrevValue:   Zero(data.Value.Currency()),
		Description: data.Description,
		Tags:        slices.Clone(data.Tags),
		HTime:       htime,
		CTime:       now,
		MTime:       now,
	}
	if err := st.SaveTransaction(t); err != nil {
		return nil, err
	}
	if err := validateSides(st, t); err != nil {
		return nil, err
	}
	return t, st.SaveTransaction(t)
}

// UpdateTransaction edits a transaction in place, preparing each valid side
// so the next maintenance pass applies the edit as a single delta.
//
// A side whose previous value was already applied simply drops its Applied
// flag and gains Changed. A side still pending first gets its account
// maintained on the spot, folding the stale value into the balance, and is
// then written back as unapplied-and-changed all the same; either way the
// next pass adds the new value and subtracts PrevValue exactly once.
func (e *Engine) UpdateTransaction(ctx context.Context, id int64, data TransactionData) (*Transaction, error) {
	if err := ValidateCurrency(data.Value.Currency()); err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	// Peek at the stored endpoints to build the lock set, then reload
	// under the locks.
	prev, err := e.store.Transaction(id)
	if err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	var tx *Transaction
	err = e.store.Atomic(ctx, lockSet(prev.From, prev.To, data.From, data.To), func(st Store) error {
		t, err := st.Transaction(id)
		if err != nil {
			return err
		}
		prepare := func(side *SideLifecycle, accountID int64) error {
			if !side.Valid {
				return nil
			}
			if !side.Applied {
				if _, err := e.maintain(st, accountID); err != nil {
					return err
				}
			}
			side.Applied = false
			side.Changed = true
			return nil
		}
		if err := prepare(&t.Lifecycle.From, t.From); err != nil {
			return err
		}
		if err := prepare(&t.Lifecycle.To, t.To); err != nil {
			return err
		}

		t.PrevValue = t.Value
		t.Value = data.Value
		t.From = data.From
		t.To = data.To
		t.Description = data.Description
		t.Tags = slices.Clone(data.Tags)
		if data.HTime != 0 {
			t.HTime = data.HTime
		} else {
			t.HTime = e.unix()
		}
		t.MTime = e.unix()
		// This write also supersedes any flags the in-scope maintenance
		// pass set on this record: both branches above converge on the
		// side being unapplied and changed.
		if err := st.SaveTransaction(t); err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	e.log.Info("transaction updated", "id", id, "value", tx.Value.Amount(), "prev", tx.PrevValue.Amount())
	return tx, nil
}

// DeleteTransaction soft-deletes a transaction: each valid side loses Valid
// and gains Deprecated, so the next maintenance pass of its account
// reverses the applied value exactly once. Pending edit flags are cleared;
// a deprecation supersedes them. The record itself is retained for audit.
func (e *Engine) DeleteTransaction(ctx context.Context, id int64) (*Transaction, error) {
	prev, err := e.store.Transaction(id)
	if err != nil {
		return nil, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	var tx *Transaction
	err = e.store.Atomic(ctx, lockSet(prev.From, prev.To), func(st Store) error {
		t, err := st.Transaction(id)
		if err != nil {
			return err
		}
		if t.Lifecycle.From.Valid {
			t.Lifecycle.From.Valid = false
			t.Lifecycle.From.Deprecated = true
		}
		if t.Lifecycle.To.Valid {
			t.Lifecycle.To.Valid = false
			t.Lifecycle.To.Deprecated = true
		}
		t.Lifecycle.From.Applied = false
		t.Lifecycle.From.Changed = false
		t.Lifecycle.To.Applied = false
		t.Lifecycle.To.Changed = false
		if err := st.SaveTransaction(t); err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	e.log.Info("transaction deprecated", "id", id)
	return tx, nil
}

// PurgeNeverValid hard-deletes every transaction that never acquired a
// lifecycle flag on either side, and returns how many were removed. Such
// records were created against accounts that never existed and took part
// in no balance.
func (e *Engine) PurgeNeverValid(ctx context.Context) (int, error) {
	n := 0
	err := e.store.Atomic(ctx, nil, func(st Store) error {
		txs, err := st.NeverValid()
		if err != nil {
			return err
		}
		for _, t := range txs {
			if err := st.RemoveTransaction(t.ID); err != nil {
				return err
			}
		}
		n = len(txs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	if n > 0 {
		e.log.Info("purged never-valid transactions", "count", n)
	}
	return n, nil
}

// Transaction returns the transaction with the given id.
func (e *Engine) Transaction(ctx context.Context, id int64) (*Transaction, error) {
	return e.store.Transaction(id)
}

// SearchTransactions lists transactions matching the query, newest
// happen-time first.
func (e *Engine) SearchTransactions(ctx context.Context, q Query) ([]*Transaction, error) {
	return e.store.Search(q)
}

// LabelTransaction adds (or removes, when add is false) one tag on a
// transaction.
func (e *Engine) LabelTransaction(ctx context.Context, id int64, label string, add bool) (*Transaction, error) {
	prev, err := e.store.Transaction(id)
	if err != nil {
		return nil, fmt.Errorf("label transaction %d: %w", id, err)
	}
	var tx *Transaction
	err = e.store.Atomic(ctx, lockSet(prev.From, prev.To), func(st Store) error {
		t, err := st.Transaction(id)
		if err != nil {
			return err
		}
		has := t.HasTag(label)
		switch {
		case add && !has:
			t.Tags = append(t.Tags, label)
		case !add && has:
			t.Tags = slices.DeleteFunc(t.Tags, func(s string) bool { return s == label })
		default:
			tx = t
			return nil
		}
		t.MTime = e.unix()
		if err := st.SaveTransaction(t); err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("label transaction %d: %w", id, err)
	}
	return tx, nil
}
