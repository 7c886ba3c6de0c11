package lookup

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyTarget is returned when every looked up field is empty.
	ErrEmptyTarget = errors.New("lookup target has no values to search for")
	// ErrNoStrategies is returned when compiling an empty strategy set.
	ErrNoStrategies = errors.New("no strategies given")
)

// NotFoundError reports a lookup that matched no row.
type NotFoundError struct {
	Strategies []LookupStrategy
	Target     map[string]string
	// Table is the text content of every row at the time of the search.
	Table [][]string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("no table entry matches ")
	writeTarget(&b, e.Target)
	b.WriteString("\nstrategies:")
	for _, s := range e.Strategies {
		b.WriteString("\n  ")
		b.WriteString(s.String())
	}
	writeTable(&b, e.Table)
	return b.String()
}

// ReadError reports values that could not be extracted from a row.
type ReadError struct {
	Row        int
	Strategies []ReadStrategy
	// Missing holds the indexes of strategies that yielded no value.
	Missing []int
	Table   [][]string
}

func (e *ReadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to read row %d:", e.Row)
	for _, i := range e.Missing {
		if i < len(e.Strategies) {
			fmt.Fprintf(&b, "\n  no value at %s", e.Strategies[i])
		} else {
			fmt.Fprintf(&b, "\n  no value for strategy #%d", i)
		}
	}
	writeTable(&b, e.Table)
	return b.String()
}

func writeTarget(b *strings.Builder, target map[string]string) {
	keys := make([]string, 0, len(target))
	for k := range target {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %q", k, target[k])
	}
	b.WriteString("}")
}

func writeTable(b *strings.Builder, table [][]string) {
	if table == nil {
		return
	}
	fmt.Fprintf(b, "\ntable content (%d rows):", len(table))
	for i, row := range table {
		fmt.Fprintf(b, "\n  %3d | %s", i, strings.Join(row, " | "))
	}
}
