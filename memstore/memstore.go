// Package memstore is an in-memory ledger.Store, used by tests and as the
// scratch backend of the CLI. It keeps every record as a private copy:
// callers never observe aliasing between what they saved and what they
// load back.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sailing-innocent/ledger"
)

// Memstore implements ledger.Store over plain maps. An Atomic scope buffers
// its writes and applies them in one step on success. Scopes run one at a
// time under a single writer lock: a transaction's lifecycle is written by
// both of its endpoint accounts, so two scopes with disjoint lock sets can
// still contend on the same record, and per-account locking alone would let
// the later commit clobber the other side's flags. This is the same
// serialization the SQLite backend gets from immediate transactions.
type Memstore struct {
	mu           sync.Mutex // guards the maps and id counters
	writer       sync.Mutex // serializes Atomic scopes
	accounts     map[int64]*ledger.Account
	transactions map[int64]*ledger.Transaction
	nextAccount  int64
	nextTx       int64
}

var _ ledger.Store = (*Memstore)(nil)
var _ ledger.Store = (*view)(nil)

// New creates an empty store.
func New() *Memstore {
	return &Memstore{
		accounts:     make(map[int64]*ledger.Account),
		transactions: make(map[int64]*ledger.Transaction),
	}
}

func cloneAccount(a *ledger.Account) *ledger.Account {
	c := *a
	return &c
}

func cloneTransaction(t *ledger.Transaction) *ledger.Transaction {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	return &c
}

// Atomic implements ledger.Store. The lock set is not needed here: the
// writer lock grants the scope exclusive write access to every account.
func (m *Memstore) Atomic(ctx context.Context, accountIDs []int64, fn func(ledger.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.writer.Lock()
	defer m.writer.Unlock()

	tx := &view{
		base:         m,
		accounts:     make(map[int64]*ledger.Account),
		transactions: make(map[int64]*ledger.Transaction),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// view is one open Atomic scope: a write overlay over the base maps.
// A nil entry in an overlay map marks a deletion.
type view struct {
	base         *Memstore
	accounts     map[int64]*ledger.Account
	transactions map[int64]*ledger.Transaction
}

func (v *view) commit() {
	m := v.base
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range v.accounts {
		if a == nil {
			delete(m.accounts, id)
		} else {
			m.accounts[id] = a
		}
	}
	for id, t := range v.transactions {
		if t == nil {
			delete(m.transactions, id)
		} else {
			m.transactions[id] = t
		}
	}
}

// Atomic on an open view runs fn in the same scope. The engine never nests
// scopes, but composed operations share one this way.
func (v *view) Atomic(ctx context.Context, accountIDs []int64, fn func(ledger.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(v)
}

func (v *view) Account(id int64) (*ledger.Account, error) {
	if a, ok := v.accounts[id]; ok {
		if a == nil {
			return nil, fmt.Errorf("account %d: %w", id, ledger.ErrAccountNotFound)
		}
		return cloneAccount(a), nil
	}
	v.base.mu.Lock()
	a, ok := v.base.accounts[id]
	v.base.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ledger.ErrAccountNotFound)
	}
	return cloneAccount(a), nil
}

// SaveAccount upserts. A fresh id is reserved from the base counter right
// away, not at commit, so a rolled-back scope leaves a gap rather than a
// reusable id.
func (v *view) SaveAccount(a *ledger.Account) error {
	if a.ID == 0 {
		v.base.mu.Lock()
		v.base.nextAccount++
		a.ID = v.base.nextAccount
		v.base.mu.Unlock()
	}
	v.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (v *view) DeleteAccount(id int64) error {
	v.accounts[id] = nil
	return nil
}

func (v *view) Transaction(id int64) (*ledger.Transaction, error) {
	if t, ok := v.transactions[id]; ok {
		if t == nil {
			return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrTransactionNotFound)
		}
		return cloneTransaction(t), nil
	}
	v.base.mu.Lock()
	t, ok := v.base.transactions[id]
	v.base.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrTransactionNotFound)
	}
	return cloneTransaction(t), nil
}

func (v *view) SaveTransaction(t *ledger.Transaction) error {
	if t.ID == 0 {
		v.base.mu.Lock()
		v.base.nextTx++
		t.ID = v.base.nextTx
		v.base.mu.Unlock()
	}
	v.transactions[t.ID] = cloneTransaction(t)
	return nil
}

func (v *view) RemoveTransaction(id int64) error {
	v.transactions[id] = nil
	return nil
}

// merged yields every live transaction visible in this scope, overlay
// entries shadowing base ones.
func (v *view) merged() []*ledger.Transaction {
	v.base.mu.Lock()
	out := make([]*ledger.Transaction, 0, len(v.base.transactions))
	for id, t := range v.base.transactions {
		if _, shadowed := v.transactions[id]; shadowed {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	v.base.mu.Unlock()
	for _, t := range v.transactions {
		if t != nil {
			out = append(out, cloneTransaction(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *view) Accounts() ([]*ledger.Account, error) {
	v.base.mu.Lock()
	out := make([]*ledger.Account, 0, len(v.base.accounts))
	for id, a := range v.base.accounts {
		if _, shadowed := v.accounts[id]; shadowed {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	v.base.mu.Unlock()
	for _, a := range v.accounts {
		if a != nil {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) Transactions() ([]*ledger.Transaction, error) {
	return v.merged(), nil
}

func (v *view) Inbound(accountID int64) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range v.merged() {
		if t.To == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (v *view) Outbound(accountID int64) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range v.merged() {
		if t.From == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (v *view) Search(q ledger.Query) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range v.merged() {
		if matches(t, q) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HTime > out[j].HTime })
	return out, nil
}

func (v *view) NeverValid() ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range v.merged() {
		if t.Lifecycle.IsZero() {
			out = append(out, t)
		}
	}
	return out, nil
}

func matches(t *ledger.Transaction, q ledger.Query) bool {
	if t.Lifecycle.IsZero() {
		return false
	}
	if q.Tag != "" && !strings.Contains(strings.Join(t.Tags, ","), q.Tag) {
		return false
	}
	if q.Description != "" && !strings.Contains(t.Description, q.Description) {
		return false
	}
	if q.FromTime != 0 && t.HTime < q.FromTime {
		return false
	}
	if q.ToTime != 0 && t.HTime > q.ToTime {
		return false
	}
	return true
}

// The autocommit methods below run each call as its own scope.

func (m *Memstore) oneShot(fn func(ledger.Store) error) error {
	return m.Atomic(context.Background(), nil, fn)
}

func (m *Memstore) Account(id int64) (a *ledger.Account, err error) {
	err = m.oneShot(func(st ledger.Store) error { a, err = st.Account(id); return err })
	return a, err
}

func (m *Memstore) Accounts() (as []*ledger.Account, err error) {
	err = m.oneShot(func(st ledger.Store) error { as, err = st.Accounts(); return err })
	return as, err
}

func (m *Memstore) SaveAccount(a *ledger.Account) error {
	return m.oneShot(func(st ledger.Store) error { return st.SaveAccount(a) })
}

func (m *Memstore) DeleteAccount(id int64) error {
	return m.oneShot(func(st ledger.Store) error { return st.DeleteAccount(id) })
}

func (m *Memstore) Transaction(id int64) (t *ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { t, err = st.Transaction(id); return err })
	return t, err
}

func (m *Memstore) Transactions() (ts []*ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { ts, err = st.Transactions(); return err })
	return ts, err
}

func (m *Memstore) SaveTransaction(t *ledger.Transaction) error {
	return m.oneShot(func(st ledger.Store) error { return st.SaveTransaction(t) })
}

func (m *Memstore) RemoveTransaction(id int64) error {
	return m.oneShot(func(st ledger.Store) error { return st.RemoveTransaction(id) })
}

func (m *Memstore) Inbound(accountID int64) (ts []*ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { ts, err = st.Inbound(accountID); return err })
	return ts, err
}

func (m *Memstore) Outbound(accountID int64) (ts []*ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { ts, err = st.Outbound(accountID); return err })
	return ts, err
}

func (m *Memstore) Search(q ledger.Query) (ts []*ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { ts, err = st.Search(q); return err })
	return ts, err
}

func (m *Memstore) NeverValid() (ts []*ledger.Transaction, err error) {
	err = m.oneShot(func(st ledger.Store) error { ts, err = st.NeverValid(); return err })
	return ts, err
}
