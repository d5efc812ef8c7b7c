package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"depenses/internal/core"
	"depenses/internal/services"
	"depenses/internal/store"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show who owes whom" }
func (*balanceCmd) Usage() string {
	return `depensesctl balance

  Recomputes the running balance from the full ledger and prints the
  resulting debt, if any.
`
}
func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, currency, cleanup, err := openServices()
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	view, err := ledger.Balance(ctx)
	if err != nil {
		return fail(fmt.Errorf("compute balance: %w", err))
	}
	if view.Net.Cents == 0 {
		fmt.Println("settled: nobody owes anything")
		return subcommands.ExitSuccess
	}
	fmt.Printf("%s owes %s to %s\n", view.Debtor, view.Owed.Format(currency), view.Creditor)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	period string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list ledger entries, newest first" }
func (*historyCmd) Usage() string {
	return `depensesctl history [-p YYYY-MM]

  Lists entries, optionally restricted to one month.
`
}
func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Restrict the listing to one month (YYYY-MM).")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, currency, cleanup, err := openServices()
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	var period core.Period
	if c.period != "" {
		period, err = core.ParsePeriod(c.period)
		if err != nil {
			return fail(err)
		}
	}

	entries, _, err := ledger.History(ctx, period)
	if err != nil {
		return fail(fmt.Errorf("read history: %w", err))
	}
	if len(entries) == 0 {
		fmt.Println("no entries")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tID\tDESCRIPTION\tAMOUNT\tPAYER\tSHARES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s / %s\n",
			e.Date.Format(store.DateLayout),
			e.ID,
			e.Description,
			e.Amount.Format(currency),
			e.Payer,
			e.PayerShare.Format(currency),
			e.OtherShare.Format(currency))
	}
	return flushOrFail(w)
}

type addCmd struct {
	date     string
	desc     string
	amount   string
	payer    string
	mode     string
	percent  float64
	periodic bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a shared expense" }
func (*addCmd) Usage() string {
	return `depensesctl add -desc <text> -amount <decimal> -payer <name> [-date YYYY-MM-DD] [-mode equal|payer_full|other_full|custom] [-percent N] [-periodic]

  Validates, splits and appends one entry.
`
}
func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Entry date (defaults to today).")
	f.StringVar(&c.desc, "desc", "", "Entry description.")
	f.StringVar(&c.amount, "amount", "", "Total amount, decimal comma or dot.")
	f.StringVar(&c.payer, "payer", "", "Who paid.")
	f.StringVar(&c.mode, "mode", "equal", "Split mode: equal, payer_full, other_full or custom.")
	f.Float64Var(&c.percent, "percent", 50, "Payer share percent for -mode custom.")
	f.BoolVar(&c.periodic, "periodic", false, "Mark as a monthly recurring template.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, currency, cleanup, err := openServices()
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	in := services.EntryInput{
		Description:   c.desc,
		Payer:         core.Participant(c.payer),
		Mode:          core.SplitMode(c.mode),
		CustomPercent: c.percent,
		Periodic:      c.periodic,
	}
	if c.date == "" {
		in.Date = services.DefaultEntryDate(time.Now())
	} else {
		t, err := time.Parse(store.DateLayout, c.date)
		if err != nil {
			return fail(fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.date))
		}
		in.Date = core.Date{Time: t}
	}
	in.AmountCents, err = core.ParseDecimalToCents(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}

	entry, err := ledger.CreateEntry(ctx, in)
	if err != nil {
		return fail(fmt.Errorf("create entry: %w", err))
	}
	fmt.Printf("recorded %s: %s %s paid by %s (shares %s / %s)\n",
		entry.ID, entry.Description, entry.Amount.Format(currency), entry.Payer,
		entry.PayerShare.Format(currency), entry.OtherShare.Format(currency))
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	id     string
	desc   string
	amount string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete one ledger entry" }
func (*deleteCmd) Usage() string {
	return `depensesctl delete [-id <entry-id>] [-desc <text> -amount <decimal>]

  Deletes by ID when given, otherwise the first entry matching the
  description and amount.
`
}
func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Entry ID.")
	f.StringVar(&c.desc, "desc", "", "Entry description (with -amount).")
	f.StringVar(&c.amount, "amount", "", "Entry total amount (with -desc).")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, _, cleanup, err := openServices()
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	req := store.DeleteRequest{ID: c.id, Description: c.desc}
	if c.amount != "" {
		req.AmountCents, err = core.ParseDecimalToCents(c.amount)
		if err != nil {
			return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
		}
	}

	if err := ledger.DeleteEntry(ctx, req); err != nil {
		return fail(fmt.Errorf("delete entry: %w", err))
	}
	fmt.Println("deleted")
	return subcommands.ExitSuccess
}

type reconcileCmd struct {
	dryRun bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "materialize missing recurring entries for this month" }
func (*reconcileCmd) Usage() string {
	return `depensesctl reconcile [-n]

  Generates the recurring entries still missing for the current month.
  With -n, only reports what would be generated.
`
}
func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Report missing entries without writing.")
}

func (c *reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, recur, currency, cleanup, err := openServices()
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	if c.dryRun {
		status, err := recur.ReportStatus(ctx, time.Now())
		if err != nil {
			return fail(fmt.Errorf("recurrence status: %w", err))
		}
		fmt.Printf("%s: %d template(s), %d missing\n", status.Period, len(status.Templates), len(status.Missing))
		for _, e := range status.Missing {
			fmt.Printf("  would generate %s (%s)\n", e.Description, e.Amount.Format(currency))
		}
		return subcommands.ExitSuccess
	}

	result, err := recur.Reconcile(ctx, time.Now())
	if err != nil {
		return fail(fmt.Errorf("reconcile %s (%d/%d generated): %w", result.Period, result.Generated, result.Missing, err))
	}
	fmt.Printf("%s: generated %d of %d missing entries\n", result.Period, result.Generated, result.Missing)
	return subcommands.ExitSuccess
}

func flushOrFail(w *tabwriter.Writer) subcommands.ExitStatus {
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
