package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Engine is the ledger reconciliation engine. It keeps the cached balance
// of every account consistent with the transaction set referencing it,
// without ever re-scanning full history on a read: each transaction side
// carries lifecycle flags recording exactly how much of it the balance has
// absorbed, and a maintenance pass consumes the flags.
//
// Every public operation runs inside one atomic store scope covering its
// reads and writes, so the engine is safe to call concurrently against the
// same account, and safe to retry after a crash: each balance-changing
// branch is guarded by a flag that is cleared in the same scope that
// commits the balance.
type Engine struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates an engine over the given store. A nil logger falls back to
// slog.Default().
func New(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, log: logger, now: time.Now}
}

func (e *Engine) unix() int64 { return e.now().Unix() }

// lockSet collects the account ids an operation must lock, dropping
// External and duplicates and sorting ascending.
func lockSet(ids ...int64) []int64 {
	set := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != External && !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	slices.Sort(set)
	return set
}

// accountExists reports whether the account id resolves in the store,
// distinguishing "absent" from a real lookup failure.
func accountExists(st Store, id int64) (bool, error) {
	_, err := st.Account(id)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateAccount creates an account with a zero balance in the given
// currency (CNY when unset).
func (e *Engine) CreateAccount(ctx context.Context, data AccountData) (*Account, error) {
	cur := data.Currency
	if cur == "" {
		cur = CNY
	}
	if err := ValidateCurrency(cur); err != nil {
		return nil, err
	}
	now := e.unix()
	acct := &Account{
		Name:        data.Name,
		Description: data.Description,
		Balance:     Zero(cur),
		Lifecycle:   AccountLifecycle{Valid: true},
		CTime:       now,
		MTime:       now,
	}
	err := e.store.Atomic(ctx, nil, func(st Store) error {
		return st.SaveAccount(acct)
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	e.log.Info("account created", "id", acct.ID, "name", acct.Name, "currency", cur)
	return acct, nil
}

// Account returns the account with the given id.
func (e *Engine) Account(ctx context.Context, id int64) (*Account, error) {
	return e.store.Account(id)
}

// Accounts lists every account.
func (e *Engine) Accounts(ctx context.Context) ([]*Account, error) {
	return e.store.Accounts()
}

// DeleteAccount removes the account record. Transactions referencing it are
// left in place; ValidateAll clears their side validity afterwards.
func (e *Engine) DeleteAccount(ctx context.Context, id int64) error {
	err := e.store.Atomic(ctx, []int64{id}, func(st Store) error {
		if _, err := st.Account(id); err != nil {
			return err
		}
		return st.DeleteAccount(id)
	})
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	e.log.Info("account deleted", "id", id)
	return nil
}

// ValidateAll revalidates the side-valid flag of every transaction against
// the current account set. It repairs validity after an account was deleted
// or created later than transactions referencing it.
func (e *Engine) ValidateAll(ctx context.Context) error {
	return e.store.Atomic(ctx, nil, func(st Store) error {
		txs, err := st.Transactions()
		if err != nil {
			return err
		}
		for _, t := range txs {
			was := t.Lifecycle
			if err := validateSides(st, t); err != nil {
				return err
			}
			if t.Lifecycle != was {
				if err := st.SaveTransaction(t); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
