// Package sqlstore persists the ledger in SQLite.
package sqlstore

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Accounts table.
-- balance is a cached aggregate stored as an exact decimal string; the
-- transactions referencing the account stay the source of truth.
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    balance TEXT NOT NULL,
    currency TEXT NOT NULL,
    lifecycle INTEGER NOT NULL DEFAULT 0,
    ctime INTEGER NOT NULL,
    mtime INTEGER NOT NULL
);

-- Transactions table.
-- A NULL endpoint means an external party. lifecycle packs the per-side
-- reconciliation flags; 0 marks a record that never became valid.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ref TEXT NOT NULL UNIQUE,
    from_acc INTEGER,
    to_acc INTEGER,
    value TEXT NOT NULL,
    prev_value TEXT NOT NULL,
    currency TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    lifecycle INTEGER NOT NULL DEFAULT 0,
    htime INTEGER NOT NULL,
    ctime INTEGER NOT NULL,
    mtime INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_to
    ON transactions(to_acc);

CREATE INDEX IF NOT EXISTS idx_transactions_from
    ON transactions(from_acc);

CREATE INDEX IF NOT EXISTS idx_transactions_htime
    ON transactions(htime);
`
