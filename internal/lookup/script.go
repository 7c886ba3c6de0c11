package lookup

import (
	"encoding/json"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

type mode string

const (
	modeLookup mode = "lookup"
	modeRead   mode = "read"
)

// scriptTemplate renders `(table, params) => ...`. Column, selector and
// field data arrive as a JSON string in params; only the transform
// expressions are rendered into the source.
var scriptTemplate = pongo2.Must(pongo2.FromString(`{% autoescape off %}(table, params) => {
  const transforms = [{% for t in transforms %}{% if t %}(value) => ({{ t }}){% else %}null{% endif %}{% if not forloop.Last %}, {% endif %}{% endfor %}];
  const args = JSON.parse(params);
  const extract = (row, d, i) => {
    const cells = row.querySelectorAll('td');
    if (d.column < 1 || d.column > cells.length) {
      return null;
    }
    let el = cells[d.column - 1];
    if (d.selector) {
      el = el.querySelector(d.selector);
      if (!el) {
        return null;
      }
    }
    let value = d.by_value ? el.value : el.textContent;
    if (value === null || value === undefined) {
      return null;
    }
    value = String(value).trim();
    if (transforms[i]) {
      value = String(transforms[i](value));
    }
    return value;
  };
  const rows = table.querySelectorAll('tbody tr');
{% if mode == "lookup" %}
  for (let r = 0; r < rows.length; r++) {
    let compared = 0;
    let matched = true;
    for (let i = 0; i < args.descriptors.length; i++) {
      const d = args.descriptors[i];
      if (d.expected === '') {
        continue;
      }
      if (extract(rows[r], d, i) !== d.expected) {
        matched = false;
        break;
      }
      if (d.primary_key) {
        return r;
      }
      compared++;
    }
    if (matched && compared > 0) {
      return r;
    }
  }
  return -1;
{% else %}
  const out = [];
  const row = args.row >= 0 && args.row < rows.length ? rows[args.row] : null;
  for (let i = 0; i < args.descriptors.length; i++) {
    out.push(row ? extract(row, args.descriptors[i], i) : null);
  }
  return out;
{% endif %}
}{% endautoescape %}`))

type descriptor struct {
	Column     int    `json:"column"`
	Selector   string `json:"selector,omitempty"`
	ByValue    bool   `json:"by_value"`
	Field      string `json:"field,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Expected   string `json:"expected"`
}

// Script is a compiled lookup or read function. Source is evaluated with
// the table element as first argument and the output of LookupArgs or
// ReadArgs as second.
type Script struct {
	Source string

	mode   mode
	lookup []LookupStrategy
	read   []ReadStrategy
}

// CompileLookup compiles strategies into a row search returning the
// 0-based index of the first matching row or -1.
func CompileLookup(strategies []LookupStrategy) (*Script, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	transforms := make([]string, len(strategies))
	for i, s := range strategies {
		if s.Field == "" {
			return nil, fmt.Errorf("lookup strategy #%d has no field", i)
		}
		if s.Column < 1 {
			return nil, fmt.Errorf("lookup strategy %s: columns start at 1", s)
		}
		transforms[i] = s.Transform
	}
	src, err := render(modeLookup, transforms)
	if err != nil {
		return nil, err
	}
	return &Script{Source: src, mode: modeLookup, lookup: strategies}, nil
}

// CompileRead compiles strategies into a row reader returning one value
// per strategy, null where nothing could be extracted.
func CompileRead(strategies []ReadStrategy) (*Script, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	transforms := make([]string, len(strategies))
	for i, s := range strategies {
		if s.Column < 1 {
			return nil, fmt.Errorf("read strategy %s: columns start at 1", s)
		}
		transforms[i] = s.Transform
	}
	src, err := render(modeRead, transforms)
	if err != nil {
		return nil, err
	}
	return &Script{Source: src, mode: modeRead, read: strategies}, nil
}

func render(m mode, transforms []string) (string, error) {
	src, err := scriptTemplate.Execute(pongo2.Context{
		"mode":       string(m),
		"transforms": transforms,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s script: %w", m, err)
	}
	return src, nil
}

// LookupStrategies returns the strategies the script was compiled from.
func (s *Script) LookupStrategies() []LookupStrategy { return s.lookup }

// ReadStrategies returns the strategies the script was compiled from.
func (s *Script) ReadStrategies() []ReadStrategy { return s.read }

// LookupArgs encodes target as the params argument of a lookup script.
// A target with no value for any strategy field yields ErrEmptyTarget.
func (s *Script) LookupArgs(target map[string]string) (string, error) {
	if s.mode != modeLookup {
		return "", fmt.Errorf("script compiled for %s, not lookup", s.mode)
	}
	descriptors := make([]descriptor, len(s.lookup))
	empty := true
	for i, st := range s.lookup {
		v := target[st.Field]
		if v != "" {
			empty = false
		}
		descriptors[i] = descriptor{
			Column:     st.Column,
			Selector:   st.Selector,
			ByValue:    st.ByValue,
			Field:      st.Field,
			PrimaryKey: st.PrimaryKey,
			Expected:   v,
		}
	}
	if empty {
		return "", ErrEmptyTarget
	}
	return encode(map[string]any{"descriptors": descriptors})
}

// ReadArgs encodes the params argument of a read script for row.
func (s *Script) ReadArgs(row int) (string, error) {
	if s.mode != modeRead {
		return "", fmt.Errorf("script compiled for %s, not read", s.mode)
	}
	descriptors := make([]descriptor, len(s.read))
	for i, st := range s.read {
		descriptors[i] = descriptor{Column: st.Column, Selector: st.Selector, ByValue: st.ByValue}
	}
	return encode(map[string]any{"row": row, "descriptors": descriptors})
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode script params: %w", err)
	}
	return string(b), nil
}

// RowIndex converts a lookup script result into a row index, -1 meaning
// no match.
func RowIndex(result any) (int, error) {
	switch v := result.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unexpected lookup result %T(%v)", result, result)
	}
}

// Values converts a read script result into strings. Indexes of null
// entries are returned in missing.
func Values(result any, n int) (values []string, missing []int, err error) {
	items, ok := result.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected read result %T(%v)", result, result)
	}
	if len(items) != n {
		return nil, nil, fmt.Errorf("read returned %d values, want %d", len(items), n)
	}
	values = make([]string, n)
	for i, item := range items {
		switch v := item.(type) {
		case nil:
			missing = append(missing, i)
		case string:
			values[i] = v
		default:
			values[i] = fmt.Sprint(v)
		}
	}
	return values, missing, nil
}
