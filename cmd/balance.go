package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/sailing-innocent/ledger"
	"github.com/sailing-innocent/ledger/render"
)

type maintainCmd struct{}

func (*maintainCmd) Name() string     { return "maintain" }
func (*maintainCmd) Synopsis() string { return "apply pending deltas to an account balance" }
func (*maintainCmd) Usage() string {
	return `lgr maintain <account_id>

  Incrementally folds every pending transaction change into the account's
  cached balance. Safe to repeat: a second run with no new changes is a
  no-op.
`
}

func (*maintainCmd) SetFlags(*flag.FlagSet) {}

func (p *maintainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f)
	if err != nil {
		return fail(err)
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	acct, err := eng.Maintain(ctx, id)
	if err != nil {
		return fail(err)
	}
	printMarkdown(render.Account(acct))
	return subcommands.ExitSuccess
}

type recalcCmd struct{}

func (*recalcCmd) Name() string     { return "recalc" }
func (*recalcCmd) Synopsis() string { return "rebuild an account balance from scratch" }
func (*recalcCmd) Usage() string {
	return `lgr recalc <account_id>

  Rebuilds the cached balance from the full transaction set, repairing any
  drift. Deprecated transactions contribute nothing.
`
}

func (*recalcCmd) SetFlags(*flag.FlagSet) {}

func (p *recalcCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f)
	if err != nil {
		return fail(err)
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	acct, err := eng.Recalc(ctx, id)
	if err != nil {
		return fail(err)
	}
	printMarkdown(render.Account(acct))
	return subcommands.ExitSuccess
}

type fixCmd struct {
	balance  string
	currency string
}

func (*fixCmd) Name() string     { return "fix" }
func (*fixCmd) Synopsis() string { return "reconcile an account to an asserted true balance" }
func (*fixCmd) Usage() string {
	return `lgr fix -b <balance> [-c <currency>] <account_id>

  Compares the maintained balance with the asserted one and, when they
  differ, records a single correcting transaction from an external party.
`
}

func (p *fixCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.balance, "b", "", "The asserted true balance, as an exact decimal string.")
	f.StringVar(&p.currency, "c", "", "Currency of the asserted balance. Defaults to the configured currency.")
}

func (p *fixCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f)
	if err != nil {
		return fail(err)
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
	asserted, err := ledger.ParseMoney(p.balance, cur)
	if err != nil {
		return fail(err)
	}
	acct, err := eng.Fix(ctx, id, asserted)
	if err != nil {
		return fail(err)
	}
	printMarkdown(render.Account(acct))
	return subcommands.ExitSuccess
}

type revalidateCmd struct{}

func (*revalidateCmd) Name() string     { return "revalidate" }
func (*revalidateCmd) Synopsis() string { return "revalidate every transaction against the account set" }
func (*revalidateCmd) Usage() string {
	return `lgr revalidate

  Re-checks each transaction side against the current accounts, settling
  validity after accounts were created late or deleted.
`
}

func (*revalidateCmd) SetFlags(*flag.FlagSet) {}

func (p *revalidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	if err := eng.ValidateAll(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Revalidated all transactions")
	return subcommands.ExitSuccess
}

type purgeCmd struct{}

func (*purgeCmd) Name() string     { return "purge" }
func (*purgeCmd) Synopsis() string { return "hard-delete transactions that never became valid" }
func (*purgeCmd) Usage() string {
	return `lgr purge

  Removes transactions whose lifecycle never left the initial state on
  either side. Deprecated records are never touched.
`
}

func (*purgeCmd) SetFlags(*flag.FlagSet) {}

func (p *purgeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	n, err := eng.PurgeNeverValid(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Purged %d transactions\n", n)
	return subcommands.ExitSuccess
}
