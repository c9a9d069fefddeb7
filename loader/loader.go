// Package loader reads and writes whole budget documents.
//
// A document is a <budget> root whose children are account, security,
// transaction, split and schedule records. Accounts and securities are
// registered first so that transactions can resolve them regardless of
// document order. A record that fails to decode is dropped, logged and
// reported in Result.Dropped; the remaining records still load.
//
// Example usage:
//
//	ldr := loader.New(loader.WithLogger(log))
//	result, err := ldr.Load(ctx, "home.xml")
//	for _, d := range result.Dropped {
//		fmt.Println(d)
//	}
//
// With WithStrict, any dropped record turns into a LoadErrors error.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/culso/Eqonomize/ledger"
	"github.com/culso/Eqonomize/logger"
	"github.com/culso/Eqonomize/telemetry"
	"github.com/culso/Eqonomize/tree"
)

// Loader loads budget documents.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithStrict(), WithConfig(cfg))
type Loader struct {
	// Strict makes any dropped record a load failure.
	Strict bool

	logger *zerolog.Logger
	config *ledger.Config
}

// Option configures how documents are loaded.
type Option func(*Loader)

// WithStrict makes Load fail with LoadErrors when any record is dropped.
func WithStrict() Option {
	return func(l *Loader) {
		l.Strict = true
	}
}

// WithLogger sets the logger dropped records are reported to. Without it
// the logger carried by the context is used.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = &log
	}
}

// WithConfig sets the book config. Without it the config carried by the
// context is used.
func WithConfig(cfg *ledger.Config) Option {
	return func(l *Loader) {
		l.config = cfg
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is a loaded budget plus the records that were dropped.
type Result struct {
	// Filename is the absolute path of the loaded file, empty for LoadBytes.
	Filename string
	Budget   *ledger.Budget
	Dropped  []*DroppedError
}

func (l *Loader) log(ctx context.Context) zerolog.Logger {
	if l.logger != nil {
		return *l.logger
	}
	return logger.FromContext(ctx)
}

func (l *Loader) bookConfig(ctx context.Context) *ledger.Config {
	if l.config != nil {
		return l.config
	}
	return ledger.ConfigFromContext(ctx)
}

// Load reads and decodes the budget file.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "load "+filepath.Base(filename))
	defer timer.End()

	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	result, err := l.LoadBytes(ctx, data)
	if result != nil {
		result.Filename = abs
	}
	if pe, ok := err.(*ParseError); ok {
		pe.Filename = filename
	}
	return result, err
}

// LoadBytes decodes a budget document held in memory.
func (l *Loader) LoadBytes(ctx context.Context, data []byte) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "parse")
	root, err := tree.Unmarshal(data)
	timer.End()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return l.Decode(ctx, root)
}

// Decode builds a budget from a document root.
func (l *Loader) Decode(ctx context.Context, root *tree.Node) (*Result, error) {
	if root.Tag != "budget" {
		return nil, &ParseError{Err: fmt.Errorf("root element is <%s>, expected <budget>", root.Tag)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &decodeState{
		log:    l.log(ctx),
		budget: ledger.NewBudget(l.bookConfig(ctx)),
	}

	timer := telemetry.StartTimer(ctx, "decode")
	d.registry(timer, root)
	if err := ctx.Err(); err != nil {
		timer.End()
		return nil, err
	}
	d.records(timer, root)
	timer.End()

	result := &Result{Budget: d.budget, Dropped: d.dropped}
	if l.Strict && len(d.dropped) > 0 {
		return result, LoadErrors(d.dropped)
	}
	return result, nil
}

// decodeState tracks one Decode run.
type decodeState struct {
	log     zerolog.Logger
	budget  *ledger.Budget
	dropped []*DroppedError
}

func (d *decodeState) drop(tag string, index int, err error) {
	d.log.Warn().
		Str("tag", tag).
		Int("index", index).
		Err(err).
		Msg("dropped record")
	d.dropped = append(d.dropped, &DroppedError{Tag: tag, Index: index, Err: err})
}

// registry registers accounts, then securities.
func (d *decodeState) registry(parent telemetry.Timer, root *tree.Node) {
	timer := parent.Child("accounts and securities")
	defer timer.End()

	count := 0
	for i, n := range root.Children {
		if n.Tag != "account" {
			continue
		}
		count++
		a, err := decodeAccount(n)
		if err == nil {
			err = d.budget.AddAccount(a)
		}
		if err != nil {
			d.drop(n.Tag, i, err)
		}
	}
	for i, n := range root.Children {
		if n.Tag != "security" {
			continue
		}
		count++
		s, err := decodeSecurity(d.budget, n)
		if err == nil {
			err = d.budget.AddSecurity(s)
		}
		if err != nil {
			d.drop(n.Tag, i, err)
		}
	}
	timer.Records(count)
}

// records decodes transactions, splits and schedules in document order.
func (d *decodeState) records(parent telemetry.Timer, root *tree.Node) {
	timer := parent.Child("transactions")
	defer timer.End()

	count := 0
	for i, n := range root.Children {
		dec := ledger.NewDecoder(d.budget)
		var err error
		switch n.Tag {
		case "account", "security":
			continue
		case "transaction":
			var t ledger.Transaction
			if t, err = dec.Transaction(n); err == nil {
				d.budget.AddTransaction(t)
			}
		case "split":
			var s *ledger.SplitTransaction
			if s, err = dec.SplitTransaction(n); err == nil {
				d.budget.AddSplitTransaction(s)
			}
		case "schedule":
			var s *ledger.ScheduledTransaction
			if s, err = dec.ScheduledTransaction(n); err == nil {
				d.budget.AddScheduledTransaction(s)
			}
		default:
			err = &ledger.UnknownTypeError{Element: "budget", Type: n.Tag}
		}
		count++
		if err != nil {
			d.drop(n.Tag, i, err)
			continue
		}
		for _, child := range dec.Dropped() {
			d.drop(n.Tag, i, child)
		}
	}
	timer.Records(count)
}

// Save encodes the budget and writes it to filename.
func (l *Loader) Save(ctx context.Context, filename string, b *ledger.Budget) error {
	timer := telemetry.StartTimer(ctx, "save "+filepath.Base(filename))
	defer timer.End()

	data, err := tree.Marshal(Encode(b))
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	log := l.log(ctx)
	log.Debug().Str("file", filename).Int("bytes", len(data)).Msg("saved budget")
	return nil
}
