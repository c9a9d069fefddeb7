package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/culso/Eqonomize/config"
	"github.com/culso/Eqonomize/logger"
	"github.com/culso/Eqonomize/output"
	"github.com/culso/Eqonomize/telemetry"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"Settings file (default ${config_file} when present)." type:"path" short:"c"`
	Env       string `help:"Environment file with EQONOMIZE_* overrides." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check   CheckCmd   `cmd:"" help:"Load a budget and report records that do not decode."`
	List    ListCmd    `cmd:"" help:"Print the transaction register of a budget."`
	Realize RealizeCmd `cmd:"" help:"Turn due scheduled transactions into transactions."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging budget files."`
}

// session is the per-run state built from the global flags.
type session struct {
	ctx       context.Context
	settings  *config.Config
	log       zerolog.Logger
	collector telemetry.Collector
}

// newSession loads settings, builds the logger and attaches logger, book
// config and telemetry collector to the context.
func (g *Globals) newSession(stderr io.Writer) (*session, error) {
	settings, err := config.Load(g.Config, g.Env)
	if err != nil {
		return nil, err
	}

	levelName := g.LogLevel
	if levelName == "" {
		levelName = settings.LogLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	log := logger.NewConsole(stderr, level)

	bookConfig, err := settings.LedgerConfig()
	if err != nil {
		return nil, err
	}

	ctx := logger.WithContext(context.Background(), log)
	ctx = bookConfig.WithContext(ctx)

	s := &session{ctx: ctx, settings: settings, log: log}
	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
	}
	return s, nil
}

// report prints collected timings, if any, and logs them at debug level.
func (s *session) report(w io.Writer) {
	if s.collector == nil {
		return
	}
	_, _ = fmt.Fprintln(w)
	s.collector.Report(w, output.NewStyles(w))
	s.collector.Log(s.log)
}
