package ledger

import (
	"context"
	"fmt"
)

// Recalc rebuilds the account's balance from scratch out of its full
// transaction set, ignoring every incremental flag.
//
// The balance resets to zero; every non-deprecated side is forced valid
// (repairing transactions recorded before their account existed), its full
// current value applied with the appropriate sign, and its flags settled as
// applied-and-unchanged. Deprecated sides contribute nothing and are
// skipped untouched. Running it twice in a row yields the same balance and
// the same lifecycle state.
func (e *Engine) Recalc(ctx context.Context, accountID int64) (*Account, error) {
	var acct *Account
	err := e.store.Atomic(ctx, []int64{accountID}, func(st Store) error {
		a, err := e.recalc(st, accountID)
		acct = a
		return err
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("balance recalculated", "account", accountID, "balance", acct.Balance.Amount())
	return acct, nil
}

func (e *Engine) recalc(st Store, accountID int64) (*Account, error) {
	acct, err := st.Account(accountID)
	if err != nil {
		return nil, fmt.Errorf("recalc account %d: %w", accountID, err)
	}
	balance := Zero(acct.Balance.Currency())

	in, err := st.Inbound(accountID)
	if err != nil {
		return nil, err
	}
	for _, t := range in {
		side := t.Lifecycle.To
		if !side.Valid {
			if side.Deprecated {
				continue
			}
			side.Valid = true
		}
		if balance, err = balance.Add(t.Value); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		side.Applied = true
		side.Changed = false
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
		if !side.Valid {
			if side.Deprecated {
				continue
			}
			side.Valid = true
		}
		if balance, err = balance.Sub(t.Value); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		side.Applied = true
		side.Changed = false
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
