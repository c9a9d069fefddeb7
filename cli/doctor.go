package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/culso/Eqonomize/tree"
)

type DoctorCmd struct {
	Tree TreeCmd `cmd:"" help:"Print the attribute tree of a budget file."`
}

type TreeCmd struct {
	File FileOrStdin `help:"Budget file (use '-' for stdin)." arg:"" optional:""`
}

func (cmd *TreeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.newSession(ctx.Stderr)
	if err != nil {
		return err
	}
	if err := cmd.File.resolve(s.settings.Budget); err != nil {
		return err
	}

	data := cmd.File.Contents
	if !cmd.File.IsStdin() {
		if data, err = os.ReadFile(cmd.File.Filename); err != nil {
			return fmt.Errorf("failed to read %s: %w", cmd.File.Filename, err)
		}
	}
	root, err := tree.Unmarshal(data)
	if err != nil {
		return err
	}

	repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(root)
	return nil
}
