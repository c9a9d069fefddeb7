// Package tree declares the attribute-bearing tree that ledger records are
// persisted as.
//
// Every record maps to one Node: a tag, an ordered list of string attributes
// and an ordered list of child nodes. The typed accessors mirror how the
// ledger reads its records: numeric text that fails to parse reads as zero,
// while dates and ids report whether they parsed so the caller can reject
// the record.
//
// Example:
//
//	n := tree.New("transaction")
//	n.Set("type", "expense")
//	n.SetDate("date", calendar.MustParse("2024-01-05"))
//	n.SetDecimal("cost", decimal.RequireFromString("50"), 2)
//
//	data, err := tree.Marshal(n)
package tree

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// Attr is a single name/value attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the tree.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
}

// New returns an empty node with the given tag.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute, or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Has reports whether the named attribute is present.
func (n *Node) Has(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Set assigns an attribute. An existing attribute keeps its position.
func (n *Node) Set(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Remove deletes the named attribute if present.
func (n *Node) Remove(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// SetInt assigns an integer attribute.
func (n *Node) SetInt(name string, v int) {
	n.Set(name, strconv.Itoa(v))
}

// Int returns the named attribute as an integer. ok is false when the
// attribute is absent or not a number.
func (n *Node) Int(name string) (v int, ok bool) {
	s, present := n.Attr(name)
	if !present {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IntOr returns the named integer attribute, or def when absent or malformed.
func (n *Node) IntOr(name string, def int) int {
	if v, ok := n.Int(name); ok {
		return v
	}
	return def
}

// SetDecimal assigns a fixed-point decimal attribute with the given number
// of decimal places.
func (n *Node) SetDecimal(name string, v decimal.Decimal, places int32) {
	n.Set(name, v.StringFixed(places))
}

// Decimal returns the named attribute as a decimal. Absent or malformed text
// reads as zero.
func (n *Node) Decimal(name string) decimal.Decimal {
	return n.DecimalOr(name, decimal.Zero)
}

// DecimalOr returns the named decimal attribute, or def when absent.
// Malformed text reads as zero.
func (n *Node) DecimalOr(name string, def decimal.Decimal) decimal.Decimal {
	s, ok := n.Attr(name)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SetDate assigns a date attribute in YYYY-MM-DD form.
func (n *Node) SetDate(name string, d calendar.Date) {
	n.Set(name, d.String())
}

// Date parses the named attribute as a date.
func (n *Node) Date(name string) (calendar.Date, error) {
	return calendar.Parse(n.AttrOr(name, ""))
}

// Append adds children to the node and returns the node.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// ChildrenByTag returns the direct children with the given tag, in order.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Tag: n.Tag}
	if n.Attrs != nil {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}
