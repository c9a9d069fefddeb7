package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors returned when realizing a scheduled transaction.
var (
	// ErrNoTemplate is returned when the schedule has no template.
	ErrNoTemplate = errors.New("scheduled transaction has no template")
	// ErrNotOccurrence is returned when the date is not a pending occurrence.
	ErrNotOccurrence = errors.New("date is not a pending occurrence")
)

// UnresolvedReferenceError is returned when a record names an account or
// security id the book does not know
type UnresolvedReferenceError struct {
	Record string // record type, e.g. "expense"
	Attr   string // attribute holding the id
	ID     string // raw attribute value
	Kind   string // what the id was looked up as, e.g. "assets" or "security"
}

func (e *UnresolvedReferenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: missing %s reference in %q", e.Record, e.Kind, e.Attr)
	}
	return fmt.Sprintf("%s: unknown %s id %q in %q", e.Record, e.Kind, e.ID, e.Attr)
}

func (e *UnresolvedReferenceError) GetRecord() string {
	return e.Record
}

func (e *UnresolvedReferenceError) GetAttr() string {
	return e.Attr
}

func (e *UnresolvedReferenceError) GetID() string {
	return e.ID
}

// InvalidDateError is returned when a required date is absent or malformed
type InvalidDateError struct {
	Record string
	Attr   string
	Value  string
}

func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: missing date in %q", e.Record, e.Attr)
	}
	return fmt.Sprintf("%s: invalid date %q in %q", e.Record, e.Value, e.Attr)
}

func (e *InvalidDateError) GetRecord() string {
	return e.Record
}

func (e *InvalidDateError) GetValue() string {
	return e.Value
}

// MissingSecurityError is returned when a dividend record has no resolvable
// security
type MissingSecurityError struct {
	Record string
	ID     string
}

func (e *MissingSecurityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: no security given", e.Record)
	}
	return fmt.Sprintf("%s: unknown security id %q", e.Record, e.ID)
}

func (e *MissingSecurityError) GetRecord() string {
	return e.Record
}

// UnknownTypeError is returned when a node's type attribute names no known
// variant
type UnknownTypeError struct {
	Element string // tag of the node, e.g. "transaction"
	Type    string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: unknown type %q", e.Element, e.Type)
}

func (e *UnknownTypeError) GetElement() string {
	return e.Element
}

func (e *UnknownTypeError) GetType() string {
	return e.Type
}

// MissingTemplateError is returned when a schedule record yields no usable
// template transaction
type MissingTemplateError struct {
	Cause error // why the template child was rejected, nil when absent
}

func (e *MissingTemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schedule: invalid template: %v", e.Cause)
	}
	return "schedule: no template transaction"
}

func (e *MissingTemplateError) Unwrap() error {
	return e.Cause
}

// ChildError wraps the failure of one child of a split or schedule. The
// child is dropped and its parent kept.
type ChildError struct {
	Parent string // "split" or "schedule"
	Index  int    // position of the child among the parent's children
	Err    error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("%s child %d dropped: %v", e.Parent, e.Index, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}

// DuplicateIDError is returned when an account or security id is
// registered twice
type DuplicateIDError struct {
	Kind string
	ID   int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %d", e.Kind, e.ID)
}
