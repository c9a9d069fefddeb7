// Package errors renders load diagnostics for different consumers:
//   - TextFormatter: human-readable output for the command line, optionally
//     quoting the offending record from the document
//   - JSONFormatter: structured output for scripts and editors
//
// The error types themselves live in the ledger and loader packages; this
// package only handles presentation.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/culso/Eqonomize/tree"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// record is implemented by errors that point at a child of the document
// root, such as loader.DroppedError.
type record interface {
	GetTag() string
	GetIndex() int
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	document *tree.Node
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithDocument sets the document root used to quote offending records.
func WithDocument(root *tree.Node) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.document = root
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors that point at a record of the
// document are followed by that record, indented.
func (tf *TextFormatter) Format(err error) string {
	var r record
	if tf.document == nil || !stderrors.As(err, &r) {
		return err.Error()
	}
	index := r.GetIndex()
	if index < 0 || index >= len(tf.document.Children) {
		return err.Error()
	}

	var src bytes.Buffer
	if tree.Encode(&src, tf.document.Children[index]) != nil {
		return err.Error()
	}

	var buf bytes.Buffer
	buf.WriteString(err.Error())
	buf.WriteString("\n\n")
	for _, line := range strings.Split(src.String(), "\n") {
		if line == "" {
			continue
		}
		buf.WriteString("   ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(strings.TrimRight(tf.Format(err), "\n"))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Record  *RecordJSON       `json:"record,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RecordJSON locates the offending record in the document.
type RecordJSON struct {
	Tag   string `json:"tag"`
	Index int    `json:"index"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON. Type names the innermost error of
// the wrap chain; details are collected from every error along it.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Message: err.Error(),
		Details: make(map[string]string),
	}

	var r record
	if stderrors.As(err, &r) {
		errJSON.Record = &RecordJSON{Tag: r.GetTag(), Index: r.GetIndex()}
	}

	cause := err
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		cause = e
		collectDetails(e, errJSON.Details)
	}
	errJSON.Type = fmt.Sprintf("%T", cause)

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}

func collectDetails(err error, details map[string]string) {
	if e, ok := err.(interface{ GetRecord() string }); ok {
		details["record"] = e.GetRecord()
	}
	if e, ok := err.(interface{ GetAttr() string }); ok {
		details["attr"] = e.GetAttr()
	}
	if e, ok := err.(interface{ GetID() string }); ok && e.GetID() != "" {
		details["id"] = e.GetID()
	}
	if e, ok := err.(interface{ GetValue() string }); ok && e.GetValue() != "" {
		details["value"] = e.GetValue()
	}
	if e, ok := err.(interface{ GetType() string }); ok {
		details["type"] = e.GetType()
	}
}
