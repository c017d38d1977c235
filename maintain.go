package ledger

import (
	"context"
	"fmt"
)

// Maintain applies every pending delta of the account's transactions to its
// cached balance.
//
// For each inbound transaction: a valid unapplied side adds its value and
// becomes applied; a valid changed side additionally subtracts PrevValue
// and drops Changed, so an edit lands as exactly one delta; a deprecated
// side subtracts the value once and drops Deprecated, its terminal state.
// Outbound transactions run the same three branches with the signs flipped.
//
// Every branch is guarded by a flag cleared in the same atomic scope that
// commits the balance, which makes Maintain idempotent: a second call with
// no intervening mutation finds no guard set and changes nothing.
func (e *Engine) Maintain(ctx context.Context, accountID int64) (*Account, error) {
	var acct *Account
	err := e.store.Atomic(ctx, []int64{accountID}, func(st Store) error {
		a, err := e.maintain(st, accountID)
		acct = a
		return err
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("balance maintained", "account", accountID, "balance", acct.Balance.Amount())
	return acct, nil
}

// maintain is the in-scope maintenance pass, shared with the update and fix
// paths.
func (e *Engine) maintain(st Store, accountID int64) (*Account, error) {
	acct, err := st.Account(accountID)
	if err != nil {
		return nil, fmt.Errorf("maintain account %d: %w", accountID, err)
	}
	balance := acct.Balance

	in, err := st.Inbound(accountID)
	if err != nil {
		return nil, err
	}
	for _, t := range in {
		side := t.Lifecycle.To
		switch {
		case side.Valid:
			if !side.Applied {
				if balance, err = balance.Add(t.Value); err != nil {
					return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
				}
				side.Applied = true
			}
			if side.Changed {
				if balance, err = balance.Sub(t.PrevValue); err != nil {
					return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
				}
				side.Changed = false
			}
		case side.Deprecated:
			if balance, err = balance.Sub(t.Value); err != nil {
				return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
			}
			side.Deprecated = false
		}
		if side != t.Lifecycle.To {
			t.Lifecycle.To = side
			if err := st.SaveTransaction(t); err != nil {
				return nil, err
			}
		}
	}

	out, err := st.Outbound(accountID)
	if err != nil {
		return nil, err
	}
	for _, t := range out {
		side := t.Lifecycle.From
		switch {
		case side.Valid:
			if !side.Applied {
				if balance, err = balance.Sub(t.Value); err != nil {
					return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
				}
				side.Applied = true
			}
			if side.Changed {
				if balance, err = balance.Add(t.PrevValue); err != nil {
					return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
				}
				side.Changed = false
			}
		case side.Deprecated:
			if balance, err = balance.Add(t.Value); err != nil {
				return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
			}
			side.Deprecated = false
		}
		if side != t.Lifecycle.From {
			t.Lifecycle.From = side
			if err := st.SaveTransaction(t); err != nil {
				return nil, err
			}
		}
	}

	acct.Balance = balance
	acct.Lifecycle.Updated = true
	acct.MTime = e.unix()
	if err := st.SaveAccount(acct); err != nil {
		return nil, err
	}
	return acct, nil
}
