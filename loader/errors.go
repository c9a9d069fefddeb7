package loader

import (
	"fmt"
	"strings"
)

// ParseError is returned when a document cannot be read as a budget.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Filename == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DroppedError records a top-level record that failed to decode. The rest
// of the document still loads.
type DroppedError struct {
	Tag   string // element tag, e.g. "transaction"
	Index int    // position among the root's children
	Err   error
}

func (e *DroppedError) Error() string {
	return fmt.Sprintf("%s #%d: %v", e.Tag, e.Index, e.Err)
}

func (e *DroppedError) Unwrap() error {
	return e.Err
}

func (e *DroppedError) GetTag() string {
	return e.Tag
}

func (e *DroppedError) GetIndex() int {
	return e.Index
}

// MissingAttributeError is returned when an account or security record
// lacks a required attribute.
type MissingAttributeError struct {
	Tag  string
	Attr string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: missing or invalid %q", e.Tag, e.Attr)
}

// LoadErrors aggregates the records dropped while loading in strict mode.
type LoadErrors []*DroppedError

func (e LoadErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%d records dropped:\n%s", len(e), strings.Join(lines, "\n"))
}

func (e LoadErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}
