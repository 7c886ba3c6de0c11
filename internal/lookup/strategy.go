// Package lookup compiles table lookup and read strategies into in-page
// scripts evaluated against an HTML table.
package lookup

import (
	"fmt"
	"strings"
)

// ReadStrategy describes where a value is displayed in a table row.
type ReadStrategy struct {
	// Column is the 1-based position of the <td> in the row, as in
	// :nth-child.
	Column int
	// Selector narrows the cell to a nested element ("a", "input").
	Selector string
	// ByValue reads the element value instead of its text.
	ByValue bool
	// Transform is a JS expression over `value` applied before use.
	Transform string
}

// LookupStrategy is a ReadStrategy bound to a lookup field of an entity.
type LookupStrategy struct {
	ReadStrategy
	Field string
	// PrimaryKey marks a field that identifies the row on its own.
	PrimaryKey bool
}

// Option configures a strategy.
type Option func(*LookupStrategy)

// Selector reads the nested element matching sel instead of the cell.
func Selector(sel string) Option {
	return func(s *LookupStrategy) { s.Selector = sel }
}

// ByValue reads the element value instead of its text content.
func ByValue() Option {
	return func(s *LookupStrategy) { s.ByValue = true }
}

// Transform applies the JS expression expr (over `value`) to the
// extracted text.
func Transform(expr string) Option {
	return func(s *LookupStrategy) { s.Transform = expr }
}

// PrimaryKey marks the field as identifying the row on its own.
func PrimaryKey() Option {
	return func(s *LookupStrategy) { s.PrimaryKey = true }
}

// Lookup returns a strategy comparing column against target[field].
func Lookup(column int, field string, opts ...Option) LookupStrategy {
	s := LookupStrategy{ReadStrategy: ReadStrategy{Column: column}, Field: field}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Read returns a strategy extracting column. PrimaryKey has no effect.
func Read(column int, opts ...Option) ReadStrategy {
	return Lookup(column, "", opts...).ReadStrategy
}

// ReadStrategies returns the read part of each lookup strategy.
func ReadStrategies(strategies []LookupStrategy) []ReadStrategy {
	out := make([]ReadStrategy, len(strategies))
	for i, s := range strategies {
		out[i] = s.ReadStrategy
	}
	return out
}

func (s ReadStrategy) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "column=%d", s.Column)
	if s.Selector != "" {
		fmt.Fprintf(&b, " selector=%q", s.Selector)
	}
	if s.ByValue {
		b.WriteString(" by=value")
	} else {
		b.WriteString(" by=text")
	}
	if s.Transform != "" {
		fmt.Fprintf(&b, " transform=%q", s.Transform)
	}
	return b.String()
}

func (s LookupStrategy) String() string {
	pk := ""
	if s.PrimaryKey {
		pk = " primary_key"
	}
	return fmt.Sprintf("%s[%s%s]", s.Field, s.ReadStrategy.String(), pk)
}
