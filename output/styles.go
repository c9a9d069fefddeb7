// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// NewPlainStyles creates Styles that never emit escape sequences.
func NewPlainStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii)),
	}
}

func (s *Styles) color(text, code string, bold bool) string {
	style := s.output.String(text).Foreground(s.output.Color(code))
	if bold {
		style = style.Bold()
	}
	return style.String()
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.color(text, "2", true)
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.color(text, "1", true)
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.color(text, "3", true)
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.color(text, "6", false)
}

// Account returns a styled account name (yellow).
func (s *Styles) Account(text string) string {
	return s.color(text, "3", false)
}

// Date returns a styled date (blue).
func (s *Styles) Date(text string) string {
	return s.color(text, "4", false)
}

// Money formats v with places decimals, red when negative and green when
// positive. Zero is printed unstyled.
func (s *Styles) Money(v decimal.Decimal, places int32) string {
	text := v.StringFixed(places)
	switch v.Sign() {
	case -1:
		return s.color(text, "1", false)
	case 1:
		return s.color(text, "2", false)
	}
	return text
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
