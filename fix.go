package ledger

import (
	"context"
	"fmt"
)

// Fix reconciles the account's cached balance with an externally asserted
// true balance by inserting a plug transaction.
//
// It first maintains the account so pending deltas cannot be mistaken for
// drift, then computes delta = asserted - current. A non-zero delta becomes
// one synthetic transaction from External into the account, tagged
// "balance fix" with the sentinel happen-time, and a final maintenance pass
// absorbs it. This is the only path that records a transaction with an
// unvalidated external source side; the account side validates normally.
func (e *Engine) Fix(ctx context.Context, accountID int64, asserted Money) (*Account, error) {
	var acct *Account
	err := e.store.Atomic(ctx, []int64{accountID}, func(st Store) error {
		a, err := e.maintain(st, accountID)
		if err != nil {
			return err
		}
		delta, err := asserted.Sub(a.Balance)
		if err != nil {
			return err
		}
		if !delta.IsZero() {
			if _, err := e.createTransaction(st, TransactionData{
				From:        External,
				To:          accountID,
				Value:       delta,
				Description: "balance fix",
				Tags:        []string{FixTag},
				HTime:       FixTime,
			}); err != nil {
				return err
			}
			if a, err = e.maintain(st, accountID); err != nil {
				return err
			}
		}
		acct = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fix account %d: %w", accountID, err)
	}
	e.log.Info("balance fixed", "account", accountID, "balance", acct.Balance.Amount())
	return acct, nil
}
