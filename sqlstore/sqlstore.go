package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sailing-innocent/ledger"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store implements ledger.Store over a SQLite database. An Atomic scope is
// one write transaction; transactions start immediate, so SQLite's
// single-writer lock serializes every scope and subsumes the per-account
// ordering the interface asks for.
type Store struct {
	db *sql.DB
	q  querier
	tx *sql.Tx // non-nil inside an open scope
}

// Open opens (creating if needed) a SQLite ledger database.
// It enables WAL mode and immediate write transactions.
func Open(dbPath string) (*Store, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_txlock=immediate&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, q: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Atomic implements ledger.Store. The account ids are not needed here:
// the immediate transaction locks the whole database for writing.
func (s *Store) Atomic(ctx context.Context, accountIDs []int64, fn func(ledger.Store) error) error {
	if s.tx != nil {
		// Already inside a scope; run in the same one.
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	scoped := &Store{db: s.db, q: tx, tx: tx}
	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// nullAcc maps the External sentinel to a SQL NULL endpoint and back.
func nullAcc(id int64) sql.NullInt64 {
	if id == ledger.External {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func accOf(n sql.NullInt64) int64 {
	if !n.Valid {
		return ledger.External
	}
	return n.Int64
}

const accountCols = "id, name, description, balance, currency, lifecycle, ctime, mtime"

func scanAccount(row interface{ Scan(...any) error }) (*ledger.Account, error) {
	var (
		a                 ledger.Account
		balance, currency string
		lifecycle         int64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Description, &balance, &currency, &lifecycle, &a.CTime, &a.MTime)
	if err != nil {
		return nil, err
	}
	if a.Balance, err = ledger.ParseMoney(balance, currency); err != nil {
		return nil, fmt.Errorf("account %d: %w", a.ID, err)
	}
	a.Lifecycle = ledger.UnpackAccountLifecycle(lifecycle)
	return &a, nil
}

func (s *Store) Account(id int64) (*ledger.Account, error) {
	row := s.q.QueryRow("SELECT "+accountCols+" FROM accounts WHERE id = ?", id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, ledger.ErrAccountNotFound)
	}
	return a, err
}

func (s *Store) Accounts() ([]*ledger.Account, error) {
	rows, err := s.q.Query("SELECT " + accountCols + " FROM accounts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ledger.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) SaveAccount(a *ledger.Account) error {
	if a.ID == 0 {
		res, err := s.q.Exec(
			"INSERT INTO accounts (name, description, balance, currency, lifecycle, ctime, mtime) VALUES (?, ?, ?, ?, ?, ?, ?)",
			a.Name, a.Description, a.Balance.Amount(), a.Balance.Currency(), a.Lifecycle.Pack(), a.CTime, a.MTime)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = id
		return nil
	}
	_, err := s.q.Exec(
		"UPDATE accounts SET name = ?, description = ?, balance = ?, currency = ?, lifecycle = ?, mtime = ? WHERE id = ?",
		a.Name, a.Description, a.Balance.Amount(), a.Balance.Currency(), a.Lifecycle.Pack(), a.MTime, a.ID)
	return err
}

func (s *Store) DeleteAccount(id int64) error {
	_, err := s.q.Exec("DELETE FROM accounts WHERE id = ?", id)
	return err
}

const txCols = "id, ref, from_acc, to_acc, value, prev_value, currency, description, tags, lifecycle, htime, ctime, mtime"

func scanTransaction(row interface{ Scan(...any) error }) (*ledger.Transaction, error) {
	var (
		t                             ledger.Transaction
		from, to                      sql.NullInt64
		value, prev, currency, tagStr string
		lifecycle                     int64
	)
	err := row.Scan(&t.ID, &t.Ref, &from, &to, &value, &prev, &currency, &t.Description, &tagStr, &lifecycle, &t.HTime, &t.CTime, &t.MTime)
	if err != nil {
		return nil, err
	}
	t.From = accOf(from)
	t.To = accOf(to)
	if t.Value, err = ledger.ParseMoney(value, currency); err != nil {
		return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	if t.PrevValue, err = ledger.ParseMoney(prev, currency); err != nil {
		return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	if tagStr != "" {
		t.Tags = strings.Split(tagStr, ",")
	}
	t.Lifecycle = ledger.UnpackTransactionLifecycle(lifecycle)
	return &t, nil
}

func (s *Store) Transaction(id int64) (*ledger.Transaction, error) {
	row := s.q.QueryRow("SELECT "+txCols+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrTransactionNotFound)
	}
	return t, err
}

func (s *Store) SaveTransaction(t *ledger.Transaction) error {
	tags := strings.Join(t.Tags, ",")
	if t.ID == 0 {
		res, err := s.q.Exec(
			"INSERT INTO transactions (ref, from_acc, to_acc, value, prev_value, currency, description, tags, lifecycle, htime, ctime, mtime) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			t.Ref, nullAcc(t.From), nullAcc(t.To), t.Value.Amount(), t.PrevValue.Amount(), t.Value.Currency(),
			t.Description, tags, t.Lifecycle.Pack(), t.HTime, t.CTime, t.MTime)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = id
		return nil
	}
	_, err := s.q.Exec(
		"UPDATE transactions SET from_acc = ?, to_acc = ?, value = ?, prev_value = ?, currency = ?, description = ?, tags = ?, lifecycle = ?, htime = ?, mtime = ? WHERE id = ?",
		nullAcc(t.From), nullAcc(t.To), t.Value.Amount(), t.PrevValue.Amount(), t.Value.Currency(),
		t.Description, tags, t.Lifecycle.Pack(), t.HTime, t.MTime, t.ID)
	return err
}

func (s *Store) RemoveTransaction(id int64) error {
	_, err := s.q.Exec("DELETE FROM transactions WHERE id = ?", id)
	return err
}

func (s *Store) queryTransactions(query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Transactions() ([]*ledger.Transaction, error) {
	return s.queryTransactions("SELECT " + txCols + " FROM transactions ORDER BY id")
}

func (s *Store) Inbound(accountID int64) ([]*ledger.Transaction, error) {
	return s.queryTransactions("SELECT "+txCols+" FROM transactions WHERE to_acc = ? ORDER BY id", accountID)
}

func (s *Store) Outbound(accountID int64) ([]*ledger.Transaction, error) {
	return s.queryTransactions("SELECT "+txCols+" FROM transactions WHERE from_acc = ? ORDER BY id", accountID)
}

func (s *Store) Search(q ledger.Query) ([]*ledger.Transaction, error) {
	query := "SELECT " + txCols + " FROM transactions WHERE lifecycle != 0"
	var args []any
	if q.Tag != "" {
		query += " AND tags LIKE ?"
		args = append(args, "%"+q.Tag+"%")
	}
	if q.Description != "" {
		query += " AND description LIKE ?"
		args = append(args, "%"+q.Description+"%")
	}
	if q.FromTime != 0 {
		query += " AND htime >= ?"
		args = append(args, q.FromTime)
	}
	if q.ToTime != 0 {
		query += " AND htime <= ?"
		args = append(args, q.ToTime)
	}
	query += " ORDER BY htime DESC"
	return s.queryTransactions(query, args...)
}

func (s *Store) NeverValid() ([]*ledger.Transaction, error) {
	return s.queryTransactions("SELECT " + txCols + " FROM transactions WHERE lifecycle = 0 ORDER BY id")
}

var _ ledger.Store = (*Store)(nil)
