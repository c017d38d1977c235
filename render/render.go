// Package render produces markdown views of ledger records for the CLI.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/sailing-innocent/ledger"
)

// Side renders one side's lifecycle flags as a compact token list.
func Side(s ledger.SideLifecycle) string {
	var tokens []string
	if s.Valid {
		tokens = append(tokens, "valid")
	}
	if s.Applied {
		tokens = append(tokens, "applied")
	}
	if s.Changed {
		tokens = append(tokens, "changed")
	}
	if s.Deprecated {
		tokens = append(tokens, "deprecated")
	}
	if len(tokens) == 0 {
		return "-"
	}
	return strings.Join(tokens, ",")
}

func endpoint(id int64) string {
	if id == ledger.External {
		return "external"
	}
	return fmt.Sprintf("%d", id)
}

func when(htime int64) string {
	if htime == ledger.FixTime {
		return "(fix)"
	}
	return time.Unix(htime, 0).Format("2006-01-02")
}

// Transaction renders a transaction to a one-line string.
func Transaction(t *ledger.Transaction) string {
	return fmt.Sprintf("%s %s from %s to %s", when(t.HTime), t.Value.String(), endpoint(t.From), endpoint(t.To))
}

// Transactions renders a markdown table of transactions.
func Transactions(txs []*ledger.Transaction) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| ID | Date | From | To | Value | State (from) | State (to) | Description | Tags |")
	fmt.Fprintln(&b, "|---:|------|-----:|---:|------:|--------------|------------|-------------|------|")
	for _, t := range txs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			t.ID, when(t.HTime), endpoint(t.From), endpoint(t.To), t.Value.String(),
			Side(t.Lifecycle.From), Side(t.Lifecycle.To), t.Description, strings.Join(t.Tags, ","))
	}
	return b.String()
}

// Accounts renders a markdown table of accounts.
func Accounts(accounts []*ledger.Account) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| ID | Name | Balance | Updated | Description |")
	fmt.Fprintln(&b, "|---:|------|--------:|---------|-------------|")
	for _, a := range accounts {
		updated := "no"
		if a.Lifecycle.Updated {
			updated = "yes"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", a.ID, a.Name, a.Balance.String(), updated, a.Description)
	}
	return b.String()
}

// Account renders a single account as a markdown section.
func Account(a *ledger.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Name)
	if a.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", a.Description)
	}
	fmt.Fprintf(&b, "- Balance: %s\n", a.Balance.String())
	fmt.Fprintf(&b, "- Last maintained: %s\n", time.Unix(a.MTime, 0).Format(time.RFC3339))
	return b.String()
}
