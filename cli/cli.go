// Package cli implements the eqonomize commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/culso/Eqonomize/loader"
	"github.com/culso/Eqonomize/tree"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// confirmFunc asks a yes/no question. Tests replace it.
var confirmFunc = promptYesNo

// promptYesNo prompts the user with a yes/no question.
// Returns false if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	var confirm bool
	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

const stdinName = "<stdin>"

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin()
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil
	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return nil
}

// IsStdin reports whether the budget came from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinName
}

// resolve falls back to the configured budget file, then to stdin.
func (f *FileOrStdin) resolve(configured string) error {
	if f.Filename != "" {
		return nil
	}
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return err
		}
		f.Filename = configured
		return nil
	}
	return f.readStdin()
}

// Document returns the parsed document root, or nil when it does not
// parse. It is used to quote dropped records.
func (f *FileOrStdin) Document() *tree.Node {
	data := f.Contents
	if !f.IsStdin() {
		var err error
		if data, err = os.ReadFile(f.Filename); err != nil {
			return nil
		}
	}
	root, err := tree.Unmarshal(data)
	if err != nil {
		return nil
	}
	return root
}

// DisplayName returns the base name, or "<stdin>".
func (f *FileOrStdin) DisplayName() string {
	if f.IsStdin() {
		return f.Filename
	}
	return filepath.Base(f.Filename)
}

// Load loads the budget using LoadBytes for stdin or Load for files.
func (f *FileOrStdin) Load(ctx context.Context, ldr *loader.Loader) (*loader.Result, error) {
	if f.IsStdin() {
		return ldr.LoadBytes(ctx, f.Contents)
	}
	return ldr.Load(ctx, f.Filename)
}
