package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/culso/Eqonomize/calendar"
	"github.com/culso/Eqonomize/formatter"
	"github.com/culso/Eqonomize/loader"
	"github.com/culso/Eqonomize/output"
	"github.com/culso/Eqonomize/telemetry"
)

type RealizeCmd struct {
	File   FileOrStdin   `help:"Budget file (defaults to the configured budget)." arg:"" optional:""`
	Until  calendar.Date `help:"Realize occurrences on or before this date (default today)." placeholder:"YYYY-MM-DD"`
	Yes    bool          `help:"Do not ask for confirmation." short:"y"`
	DryRun bool          `help:"List due occurrences without writing the budget." name:"dry-run" short:"n"`
}

func (cmd *RealizeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.newSession(ctx.Stderr)
	if err != nil {
		return err
	}
	if err := cmd.File.resolve(s.settings.Budget); err != nil {
		return err
	}
	if cmd.File.IsStdin() {
		return fmt.Errorf("realize rewrites the budget and needs a file, not stdin")
	}

	until := cmd.Until
	if !until.IsValid() {
		until = calendar.Today()
	}

	ldr := loader.New(loader.WithStrict())
	result, err := ldr.Load(s.ctx, cmd.File.Filename)
	if err != nil {
		return err
	}
	b := result.Budget

	due := b.Due(until)
	if len(due) == 0 {
		printInfof(ctx.Stdout, "Nothing due on or before %s", until)
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	printInfof(ctx.Stdout, "%d occurrence(s) due on or before %s:", len(due), until)
	for _, o := range due {
		_, _ = fmt.Fprintf(ctx.Stdout, "  %s  %s\n",
			styles.Date(o.Date.String()),
			o.Schedule.Transaction().Description())
	}

	if cmd.DryRun {
		return nil
	}

	if !cmd.Yes {
		ok, err := confirmFunc(fmt.Sprintf("Realize %d occurrence(s)?", len(due)))
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stdout, "Nothing realized")
			return nil
		}
	}

	timer := telemetry.StartTimer(s.ctx, "realize")
	realized := b.RealizeDue(until)
	timer.Records(len(realized))
	timer.End()
	s.log.Debug().Int("count", len(realized)).Str("until", until.String()).Msg("realized schedules")

	_, _ = fmt.Fprintln(ctx.Stdout)
	f := formatter.New(formatter.WithStyles(styles))
	if err := f.FormatTransactions(realized, b.Config().MonetaryDecimalPlaces, ctx.Stdout); err != nil {
		return err
	}

	if err := ldr.Save(s.ctx, cmd.File.Filename, b); err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Realized %d transaction(s) into %s",
		len(realized), pathStyle.Render(cmd.File.Filename)))
	s.report(ctx.Stderr)
	return nil
}
