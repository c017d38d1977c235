package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/sailing-innocent/ledger"
	"github.com/sailing-innocent/ledger/render"
)

// txFlags are the fields shared by tx-add and tx-edit.
type txFlags struct {
	from        int64
	to          int64
	value       string
	currency    string
	description string
	tags        string
	date        string
}

func (p *txFlags) set(f *flag.FlagSet) {
	f.Int64Var(&p.from, "from", ledger.External, "Source account id. Omit for an external party.")
	f.Int64Var(&p.to, "to", ledger.External, "Destination account id. Omit for an external party.")
	f.StringVar(&p.value, "v", "", "Amount as an exact decimal string, e.g. 100.00.")
	f.StringVar(&p.currency, "c", "", "Currency (CNY, USD, EUR). Defaults to the configured currency.")
	f.StringVar(&p.description, "d", "", "Description.")
	f.StringVar(&p.tags, "tags", "", "Comma-separated tags.")
	f.StringVar(&p.date, "on", "", "Happen date as YYYY-MM-DD. Defaults to today.")
}

func (p *txFlags) data(defaultCurrency string) (ledger.TransactionData, error) {
	cur := p.currency
	if cur == "" {
		cur = defaultCurrency
	}
	value, err := ledger.ParseMoney(p.value, cur)
	if err != nil {
		return ledger.TransactionData{}, err
	}
	htime, err := parseWhen(p.date)
	if err != nil {
		return ledger.TransactionData{}, err
	}
	var tags []string
	if p.tags != "" {
		tags = strings.Split(p.tags, ",")
	}
	return ledger.TransactionData{
		From:        p.from,
		To:          p.to,
		Value:       value,
		Description: p.description,
		Tags:        tags,
		HTime:       htime,
	}, nil
}

type txAddCmd struct {
	txFlags
}

func (*txAddCmd) Name() string     { return "tx-add" }
func (*txAddCmd) Synopsis() string { return "record a new transaction" }
func (*txAddCmd) Usage() string {
	return `lgr tx-add [-from <id>] [-to <id>] -v <amount> [-c <currency>] [-d <description>] [-tags <t1,t2>] [-on <date>]

  Records a transaction moving the amount from one account to another.
  An omitted endpoint means money enters or leaves the modeled system.
  The affected balances update on the next maintain.
`
}

func (p *txAddCmd) SetFlags(f *flag.FlagSet) { p.txFlags.set(f) }

func (p *txAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	data, err := p.data(cfg.Currency)
	if err != nil {
		return fail(err)
	}
	tx, err := eng.CreateTransaction(ctx, data)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded transaction %d: %s\n", tx.ID, render.Transaction(tx))
	return subcommands.ExitSuccess
}

type txEditCmd struct {
	txFlags
	id int64
}

func (*txEditCmd) Name() string     { return "tx-edit" }
func (*txEditCmd) Synopsis() string { return "edit a transaction" }
func (*txEditCmd) Usage() string {
	return `lgr tx-edit -id <id> [-from <id>] [-to <id>] -v <amount> [-c <currency>] [-d <description>] [-tags <t1,t2>] [-on <date>]

  Overwrites the transaction. The superseded value is kept so the next
  maintain applies the edit as a single delta on each affected balance.
`
}

func (p *txEditCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.id, "id", 0, "Transaction id to edit.")
	p.txFlags.set(f)
}

func (p *txEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, cfg, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	data, err := p.data(cfg.Currency)
	if err != nil {
		return fail(err)
	}
	tx, err := eng.UpdateTransaction(ctx, p.id, data)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Updated transaction %d: %s\n", tx.ID, render.Transaction(tx))
	return subcommands.ExitSuccess
}

type txRmCmd struct{}

func (*txRmCmd) Name() string     { return "tx-rm" }
func (*txRmCmd) Synopsis() string { return "deprecate a transaction" }
func (*txRmCmd) Usage() string {
	return `lgr tx-rm <id>

  Soft-deletes the transaction. Its effect is reversed on the next maintain
  of each affected account; the record is retained for audit.
`
}

func (*txRmCmd) SetFlags(*flag.FlagSet) {}

func (p *txRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f)
	if err != nil {
		return fail(err)
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	tx, err := eng.DeleteTransaction(ctx, id)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Deprecated transaction %d: %s\n", tx.ID, render.Transaction(tx))
	return subcommands.ExitSuccess
}

type txLsCmd struct {
	tag         string
	description string
	start       string
	end         string
}

func (*txLsCmd) Name() string     { return "tx-ls" }
func (*txLsCmd) Synopsis() string { return "list transactions" }
func (*txLsCmd) Usage() string {
	return `lgr tx-ls [-tag <tag>] [-d <substring>] [-s <start_date>] [-e <end_date>]

  Lists transactions matching the filters, newest first.
`
}

func (p *txLsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.tag, "tag", "", "Only transactions carrying this tag.")
	f.StringVar(&p.description, "d", "", "Only transactions whose description contains this text.")
	f.StringVar(&p.start, "s", "", "Start of the happen-date range (YYYY-MM-DD).")
	f.StringVar(&p.end, "e", "", "End of the happen-date range (YYYY-MM-DD).")
}

func (p *txLsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := parseWhen(p.start)
	if err != nil {
		return fail(err)
	}
	to, err := parseWhen(p.end)
	if err != nil {
		return fail(err)
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	txs, err := eng.SearchTransactions(ctx, ledger.Query{
		Tag:         p.tag,
		Description: p.description,
		FromTime:    from,
		ToTime:      to,
	})
	if err != nil {
		return fail(err)
	}
	printMarkdown(render.Transactions(txs))
	return subcommands.ExitSuccess
}

type txLabelCmd struct {
	id     int64
	remove bool
}

func (*txLabelCmd) Name() string     { return "tx-label" }
func (*txLabelCmd) Synopsis() string { return "add or remove a tag on a transaction" }
func (*txLabelCmd) Usage() string {
	return `lgr tx-label -id <id> [-rm] <tag>

  Adds the tag to the transaction, or removes it with -rm.
`
}

func (p *txLabelCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.id, "id", 0, "Transaction id.")
	f.BoolVar(&p.remove, "rm", false, "Remove the tag instead of adding it.")
}

func (p *txLabelCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one tag argument"))
	}
	eng, _, closeStore, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	if _, err := eng.LabelTransaction(ctx, p.id, f.Arg(0), !p.remove); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
