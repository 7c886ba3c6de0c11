package elements

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/lookup"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// ErrNoStrategy is returned by entry operations of a table without
// strategies.
var ErrNoStrategy = errors.New("table has no lookup strategy")

const rowsScript = `table => Array.from(table.querySelectorAll('tbody tr'))
  .map(r => Array.from(r.querySelectorAll(':scope > td')).map(td => td.textContent.trim()))`

const nestedScript = `(table, nested) => {
  const callback = %s;
  return Array.from(table.querySelectorAll('tbody tr'))
    .map(r => Array.from(callback(Array.from(r.querySelectorAll(nested)))));
}`

// Target is anything a table row can be searched for, usually a
// models.Entity.
type Target interface {
	LookupParams() map[string]string
}

// Table is a <table> whose rows are found and read through compiled
// lookup strategies.
type Table struct {
	Element
	lookup *lookup.Script
	read   *lookup.Script
}

func NewTable(s *ui.Session, selector, name string) *Table {
	return &Table{Element: newElement(s, "table", selector, name)}
}

// SetStrategy compiles the strategies used by FindEntry and EntryTexts.
// A nil read set reuses the lookup columns.
func (t *Table) SetStrategy(find []lookup.LookupStrategy, read []lookup.ReadStrategy) error {
	ls, err := lookup.CompileLookup(find)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.name, err)
	}
	if read == nil {
		read = lookup.ReadStrategies(find)
	}
	rs, err := lookup.CompileRead(read)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.name, err)
	}
	t.lookup, t.read = ls, rs
	return nil
}

// MustSetStrategy is SetStrategy for constant strategy sets.
func (t *Table) MustSetStrategy(find []lookup.LookupStrategy, read []lookup.ReadStrategy) *Table {
	if err := t.SetStrategy(find, read); err != nil {
		panic(err)
	}
	return t
}

// Rows returns the locator of the body rows.
func (t *Table) Rows(q ...Q) (playwright.Locator, error) {
	l, err := t.Locator(q...)
	if err != nil {
		return nil, err
	}
	return l.Locator("tbody tr"), nil
}

func (t *Table) CountRows(q ...Q) (int, error) {
	rows, err := t.Rows(q...)
	if err != nil {
		return 0, err
	}
	n, err := rows.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", t, err)
	}
	return n, nil
}

// RowsContent returns the trimmed cell texts of every row. With columns
// given (1-based), only those cells are kept; absent cells read as "".
func (t *Table) RowsContent(columns []int, q ...Q) ([][]string, error) {
	l, err := t.Locator(q...)
	if err != nil {
		return nil, err
	}
	res, err := l.Evaluate(rowsScript, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", t, err)
	}
	return cells(res, columns)
}

func cells(res any, columns []int) ([][]string, error) {
	rows, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected rows result %T", res)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("unexpected row %v", r)
		}
		texts := make([]string, len(row))
		for i, c := range row {
			if c != nil {
				texts[i] = fmt.Sprint(c)
			}
		}
		if len(columns) == 0 {
			out = append(out, texts)
			continue
		}
		picked := make([]string, len(columns))
		for i, col := range columns {
			if col >= 1 && col <= len(texts) {
				picked[i] = texts[col-1]
			}
		}
		out = append(out, picked)
	}
	return out, nil
}

// EvaluateOnNestedElements calls callback with the elements matching
// nested in each row and returns its array result per row. Null items
// read as "".
func (t *Table) EvaluateOnNestedElements(nested, callback string, q ...Q) ([][]string, error) {
	l, err := t.Locator(q...)
	if err != nil {
		return nil, err
	}
	script := fmt.Sprintf(nestedScript, callback)
	res, err := l.Evaluate(script, nested)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q in rows of %s: %w", nested, t, err)
	}
	return cells(res, nil)
}

func (t *Table) ShouldHaveSizeOf(size int, q ...Q) error {
	return t.s.Step(fmt.Sprintf("Table should have %d items", size), func() error {
		rows, err := t.Rows(q...)
		if err != nil {
			return err
		}
		return t.expect(rows).ToHaveCount(size)
	})
}

func (t *Table) ShouldNotBeEmpty(q ...Q) error {
	return t.do("Table should have at least 1 item", q, func(l playwright.Locator) error {
		return t.expect(l.Locator("tbody")).Not().ToBeEmpty()
	})
}

func (t *Table) ShouldBeEmpty(q ...Q) error {
	return t.do("Table should have no items", q, func(l playwright.Locator) error {
		return t.expect(l.Locator("tbody")).ToBeEmpty()
	})
}

// FindEntry returns the 0-based index of the first row matching target.
// A miss is a *lookup.NotFoundError carrying the table content.
func (t *Table) FindEntry(target Target, q ...Q) (int, error) {
	if t.lookup == nil {
		return -1, ErrNoStrategy
	}
	params := target.LookupParams()
	idx := -1
	err := t.s.Step(fmt.Sprintf("Looking for %s in table %q", describe(params), t.name), func() error {
		var err error
		idx, err = t.findEntry(params, q)
		return err
	})
	return idx, err
}

// findEntry runs the lookup script outside of a step.
func (t *Table) findEntry(params map[string]string, q []Q) (int, error) {
	args, err := t.lookup.LookupArgs(params)
	if err != nil {
		return -1, err
	}
	l, err := t.Locator(q...)
	if err != nil {
		return -1, err
	}
	res, err := l.Evaluate(t.lookup.Source, args)
	if err != nil {
		return -1, fmt.Errorf("failed to search %s: %w", t, err)
	}
	idx, err := lookup.RowIndex(res)
	if err != nil {
		return -1, err
	}
	if idx < 0 {
		return -1, &lookup.NotFoundError{
			Strategies: t.lookup.LookupStrategies(),
			Target:     params,
			Table:      t.content(q),
		}
	}
	return idx, nil
}

// EntryTexts reads row through the given strategies, or the table's own
// read strategies when none are given.
func (t *Table) EntryTexts(row int, strategies []lookup.ReadStrategy, q ...Q) ([]string, error) {
	script := t.read
	if len(strategies) > 0 {
		s, err := lookup.CompileRead(strategies)
		if err != nil {
			return nil, err
		}
		script = s
	}
	if script == nil {
		return nil, ErrNoStrategy
	}

	args, err := script.ReadArgs(row)
	if err != nil {
		return nil, err
	}
	l, err := t.Locator(q...)
	if err != nil {
		return nil, err
	}
	res, err := l.Evaluate(script.Source, args)
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d of %s: %w", row, t, err)
	}
	values, missing, err := lookup.Values(res, len(script.ReadStrategies()))
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &lookup.ReadError{
			Row:        row,
			Strategies: script.ReadStrategies(),
			Missing:    missing,
			Table:      t.content(q),
		}
	}
	return values, nil
}

// EntryShouldBeVisible checks that the 0-based row is displayed.
func (t *Table) EntryShouldBeVisible(row int, q ...Q) error {
	return t.s.Step(fmt.Sprintf("Table entry at row %d should be visible", row), func() error {
		rows, err := t.Rows(q...)
		if err != nil {
			return err
		}
		return t.expect(rows.Nth(row)).ToBeVisible()
	})
}

// EntryShouldBeMissing checks that no row matches target.
func (t *Table) EntryShouldBeMissing(target Target, q ...Q) error {
	if t.lookup == nil {
		return ErrNoStrategy
	}
	params := target.LookupParams()
	return t.s.Step(fmt.Sprintf("Table %q should not list %s", t.name, describe(params)), func() error {
		idx, err := t.findEntry(params, q)
		var nf *lookup.NotFoundError
		switch {
		case errors.As(err, &nf):
			return nil
		case err != nil:
			return err
		}
		return fmt.Errorf("%s is listed at row %d of %s", describe(params), idx, t)
	})
}

// content is the table text for diagnostics; failures to read it are
// logged, not returned.
func (t *Table) content(q []Q) [][]string {
	rows, err := t.RowsContent(nil, q...)
	if err != nil {
		t.s.Log.Warn("failed to read table content", zap.String("table", t.name), zap.Error(err))
	}
	return rows
}

func describe(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, params[k])
	}
	return "entry {" + strings.Join(parts, ", ") + "}"
}
