package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/sailing-innocent/ledger"
	"github.com/sailing-innocent/ledger/render"
)

type accountNewCmd struct {
	name        string
	description string
	currency    string
}

func (*accountNewCmd) Name() string     { return "account-new" }
func (*accountNewCmd) Synopsis() string { return "create a new account" }
func (*accountNewCmd) Usage() string {
	return `lgr account-new -name <name> [-d <description>] [-c <currency>]

  Creates an account with a zero balance in the given currency.
`
}

func (p *accountNewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Account name.")
	f.StringVar(&p.description, "d", "", "Account description.")
	f.StringVar(&p.currency, "c", "", "Account currency (CNY, USD, EUR). Defaults to the configured currency.")
}

func (p *accountNewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.name == "" {
		return fail(fmt.Errorf("account name is missing"))
	}
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	cur := p.currency
	if cur == "" {
		cur = cfg.Currency
	}
	acct, err := eng.CreateAccount(ctx, ledger.AccountData{Name: p.name, Description: p.description, Currency: cur})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created account %d (%s)\n", acct.ID, acct.Name)
	return subcommands.ExitSuccess
}

type accountLsCmd struct{}

func (*accountLsCmd) Name() string     { return "account-ls" }
func (*accountLsCmd) Synopsis() string { return "list all accounts with cached balances" }
func (*accountLsCmd) Usage() string {
	return `lgr account-ls

  Lists every account with its cached balance.
`
}

func (*accountLsCmd) SetFlags(*flag.FlagSet) {}

func (p *accountLsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	accounts, err := eng.Accounts(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(render.Accounts(accounts))
	return subcommands.ExitSuccess
}

type accountRmCmd struct{}

func (*accountRmCmd) Name() string     { return "account-rm" }
func (*accountRmCmd) Synopsis() string { return "delete an account" }
func (*accountRmCmd) Usage() string {
	return `lgr account-rm <id>

  Deletes the account record. Transactions referencing it are kept; run
  revalidate afterwards to settle their validity.
`
}

func (*accountRmCmd) SetFlags(*flag.FlagSet) {}

func (p *accountRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f)
	if err != nil {
		return fail(err)
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	if err := eng.DeleteAccount(ctx, id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted account %d\n", id)
	return subcommands.ExitSuccess
}
