package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/culso/Eqonomize/formatter"
	"github.com/culso/Eqonomize/ledger"
	"github.com/culso/Eqonomize/loader"
	"github.com/culso/Eqonomize/output"
)

type ListCmd struct {
	File     FileOrStdin `help:"Budget file (use '-' for stdin; defaults to the configured budget, then stdin)." arg:"" optional:""`
	Account  string      `help:"Only list transactions that move money into or out of this account." short:"a"`
	Comments bool        `help:"Print transaction comments."`
	Width    int         `help:"Maximum description width (0 for no limit)." default:"40"`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.newSession(ctx.Stderr)
	if err != nil {
		return err
	}
	if err := cmd.File.resolve(s.settings.Budget); err != nil {
		return err
	}

	result, err := cmd.File.Load(s.ctx, loader.New())
	if err != nil {
		return err
	}
	b := result.Budget

	styles := output.NewStyles(ctx.Stdout)
	f := formatter.New(
		formatter.WithStyles(styles),
		formatter.WithComments(cmd.Comments),
		formatter.WithMaxDescriptionWidth(cmd.Width),
	)

	if cmd.Account == "" {
		err = f.Format(b, ctx.Stdout)
	} else {
		err = cmd.listAccount(ctx, f, styles, b)
	}
	if err != nil {
		return err
	}
	s.report(ctx.Stderr)
	return nil
}

func (cmd *ListCmd) listAccount(ctx *kong.Context, f *formatter.Formatter, styles *output.Styles, b *ledger.Budget) error {
	account := findAccount(b, cmd.Account)
	if account == nil {
		return fmt.Errorf("no account named %q", cmd.Account)
	}

	var ts []ledger.Transaction
	for _, t := range b.AllTransactions() {
		if t.FromAccount() == account || t.ToAccount() == account {
			ts = append(ts, t)
		}
	}
	if err := f.FormatTransactions(ts, b.Config().MonetaryDecimalPlaces, ctx.Stdout); err != nil {
		return err
	}

	_, err := fmt.Fprintf(ctx.Stdout, "\n%s %s\n",
		styles.Account(account.Name),
		styles.Money(b.Balance(account), b.Config().MonetaryDecimalPlaces))
	return err
}

// findAccount looks an account up by name, ignoring case. Asset accounts
// are searched first.
func findAccount(b *ledger.Budget, name string) *ledger.Account {
	for _, typ := range []ledger.AccountType{ledger.AccountTypeAssets, ledger.AccountTypeExpenses, ledger.AccountTypeIncomes} {
		for _, a := range b.Accounts(typ) {
			if strings.EqualFold(a.Name, name) {
				return a
			}
		}
	}
	return nil
}
