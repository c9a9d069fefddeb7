package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/culso/Eqonomize/errors"
	"github.com/culso/Eqonomize/loader"
)

type CheckCmd struct {
	File   FileOrStdin `help:"Budget file (use '-' for stdin; defaults to the configured budget, then stdin)." arg:"" optional:""`
	JSON   bool        `help:"Print dropped records as JSON."`
	Strict bool        `help:"Fail when any record is dropped (the default)." default:"true" negatable:""`
	Watch  bool        `help:"Check again whenever the file changes." short:"w"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.newSession(ctx.Stderr)
	if err != nil {
		return err
	}
	if err := cmd.File.resolve(s.settings.Budget); err != nil {
		return err
	}

	if !cmd.Watch {
		ok := cmd.check(s, ctx.Stdout, ctx.Stderr)
		s.report(ctx.Stderr)
		if !ok {
			return NewCommandError(1)
		}
		return nil
	}

	if cmd.File.IsStdin() {
		return fmt.Errorf("--watch needs a budget file, not stdin")
	}
	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()
	s.ctx = runCtx
	return cmd.watch(s, ctx.Stdout, ctx.Stderr)
}

// check loads the budget once and prints the outcome. It reports whether
// the check passed.
func (cmd *CheckCmd) check(s *session, stdout, stderr io.Writer) bool {
	opts := []loader.Option{}
	if cmd.Strict {
		opts = append(opts, loader.WithStrict())
	}
	result, err := cmd.File.Load(s.ctx, loader.New(opts...))
	if result == nil {
		printError(stderr, err.Error())
		return false
	}

	if len(result.Dropped) > 0 {
		errs := make([]error, len(result.Dropped))
		for i, d := range result.Dropped {
			errs[i] = d
		}
		if cmd.JSON {
			_, _ = fmt.Fprintln(stdout, errors.NewJSONFormatter().FormatAll(errs))
		} else {
			tf := errors.NewTextFormatter(errors.WithDocument(cmd.File.Document()))
			_, _ = fmt.Fprintln(stderr, tf.FormatAll(errs))
			_, _ = fmt.Fprintln(stderr)
		}
		if err != nil {
			printError(stderr, fmt.Sprintf("%d record(s) dropped", len(result.Dropped)))
			return false
		}
	}

	b := result.Budget
	printSuccess(stdout, fmt.Sprintf("Check passed: %d transactions, %d splits, %d schedules",
		len(b.Transactions()), len(b.SplitTransactions()), len(b.ScheduledTransactions())))
	return true
}

// watch re-runs the check each time the budget file is written, until the
// context is cancelled. The directory is watched so that editors which
// replace the file on save are followed.
func (cmd *CheckCmd) watch(s *session, stdout, stderr io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(cmd.File.Filename)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	cmd.check(s, stdout, stderr)
	printInfof(stderr, "Watching %s", pathStyle.Render(cmd.File.Filename))

	return watchLoop(s.ctx, watcher.Events, watcher.Errors, abs, func() {
		s.log.Debug().Str("file", abs).Msg("budget changed")
		cmd.check(s, stdout, stderr)
	})
}

// watchLoop calls onChange for every write or create event on filename.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, filename string, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filename {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				onChange()
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}
