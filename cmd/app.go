// Package cmd implements the CLI application to manage the ledger.
package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/sailing-innocent/ledger"
	"github.com/sailing-innocent/ledger/config"
	"github.com/sailing-innocent/ledger/memstore"
	"github.com/sailing-innocent/ledger/sqlstore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountNewCmd{}, "accounts")
	c.Register(&accountLsCmd{}, "accounts")
	c.Register(&accountRmCmd{}, "accounts")

	c.Register(&txAddCmd{}, "transactions")
	c.Register(&txLsCmd{}, "transactions")
	c.Register(&txEditCmd{}, "transactions")
	c.Register(&txRmCmd{}, "transactions")
	c.Register(&txLabelCmd{}, "transactions")

	c.Register(&maintainCmd{}, "balances")
	c.Register(&recalcCmd{}, "balances")
	c.Register(&fixCmd{}, "balances")

	c.Register(&revalidateCmd{}, "maintenance")
	c.Register(&purgeCmd{}, "maintenance")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "ledger.yaml", "Path to the configuration file")

type closer func() error

// openEngine loads the configuration and builds the engine over the
// configured backend.
func openEngine() (*ledger.Engine, *config.Config, closer, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	switch cfg.Backend {
	case config.BackendMemory:
		return ledger.New(memstore.New(), logger), cfg, func() error { return nil }, nil
	default:
		st, err := sqlstore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return ledger.New(st, logger), cfg, st.Close, nil
	}
}

// printMarkdown renders the markdown to the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints the error and returns the CLI failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// argID reads the single positional id argument of a command.
func argID(f *flag.FlagSet) (int64, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one id argument")
	}
	var id int64
	if _, err := fmt.Sscanf(f.Arg(0), "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", f.Arg(0), err)
	}
	return id, nil
}

// parseWhen converts a YYYY-MM-DD date to unix seconds; empty means "now"
// (reported as 0, the engine's default).
func parseWhen(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Unix(), nil
}
