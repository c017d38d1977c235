// Package ledger keeps per-account cached balances consistent with a
// mutable log of double-entry transactions, without re-scanning history on
// every read.
//
// Each transaction side carries a small lifecycle (valid, applied, changed,
// deprecated) recording exactly how much of it the endpoint's balance has
// absorbed, much like dirty bits over a materialized view. The engine
// offers three ways to settle an account:
//   - Maintain: an incremental, idempotent pass consuming the pending
//     lifecycle flags of the account's transactions.
//   - Recalc: a full rebuild of the balance from the entire transaction
//     set, repairing any drift.
//   - Fix: a reconciliation against an externally asserted true balance,
//     recording the difference as a single plug transaction.
//
// Amounts are exact decimals tagged with a currency; arithmetic across
// currencies fails loudly and nothing is ever rounded through binary
// floats. Persistence is abstracted behind the Store interface, with
// SQLite and in-memory implementations in the sqlstore and memstore
// subpackages. This package serves as the foundational logic for the `lgr`
// command-line tool.
package ledger
