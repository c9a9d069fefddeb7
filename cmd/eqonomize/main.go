package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/culso/Eqonomize/cli"
	"github.com/culso/Eqonomize/config"
)

type app struct {
	Version kong.VersionFlag `help:"Show version information"`
	cli.Commands
}

func main() {
	result := run(os.Args[1:], os.Stdout, os.Stderr, os.Exit)
	if result.Err != nil && !result.Reported() {
		_, _ = fmt.Fprintf(os.Stderr, "eqonomize: error: %v\n", result.Err)
	}
	os.Exit(result.ExitCode)
}

// run parses args and executes the selected command. exit is called by kong
// for --help and --version.
func run(args []string, stdout, stderr io.Writer, exit func(int)) cli.CommandResult {
	var a app
	parser, err := kong.New(&a,
		kong.Vars{
			"version":     buildVersion(),
			"config_file": config.DefaultFile,
		},
		kong.Name("eqonomize"),
		kong.Description("A household budget checker and scheduler."),
		kong.UsageOnError(),
		kong.Bind(&a.Globals),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return cli.Failure(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return cli.Failure(err)
	}

	return cli.Result(ctx.Run())
}

func buildVersion() string {
	version := cli.Version
	if version == "" {
		version = "dev"
	}
	if cli.CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, cli.CommitSHA)
}
