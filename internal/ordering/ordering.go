// Package ordering checks that displayed lists are sorted A-Z.
package ordering

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rule makes a name compare as another one, for entries the back office
// sorts by their transliterated form.
type Rule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Options controls the comparison.
type Options struct {
	// Collation compares with the collator of this language instead of
	// byte order.
	Collation *language.Tag
	// IgnoreCase compares case-insensitively.
	IgnoreCase bool
}

// Violation is one pair of adjacent names in the wrong order.
type Violation struct {
	Index int
	Prev  string
	Next  string
}

// UnorderedError lists every violation found.
type UnorderedError struct {
	Message    string
	Violations []Violation
}

func (e *UnorderedError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  #%d %q is listed before %q", v.Index, v.Prev, v.Next)
	}
	return b.String()
}

// Apply returns names with every rule substituted.
func Apply(names []string, rules []Rule) []string {
	subst := make(map[string]string, len(rules))
	for _, r := range rules {
		subst[r.From] = r.To
	}
	out := make([]string, len(names))
	for i, n := range names {
		if to, ok := subst[n]; ok {
			out[i] = to
			continue
		}
		out[i] = n
	}
	return out
}

// Check reports names that are not in ascending order after applying
// rules. message prefixes the returned error.
func Check(names []string, rules []Rule, message string, opts Options) error {
	cmp := comparer(opts)
	keys := Apply(names, rules)

	var violations []Violation
	for i := 1; i < len(keys); i++ {
		if cmp(keys[i-1], keys[i]) > 0 {
			violations = append(violations, Violation{Index: i, Prev: names[i-1], Next: names[i]})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	if message == "" {
		message = "list is not ordered A-Z"
	}
	return &UnorderedError{Message: message, Violations: violations}
}

func comparer(opts Options) func(a, b string) int {
	if opts.Collation != nil {
		var copts []collate.Option
		if opts.IgnoreCase {
			copts = append(copts, collate.IgnoreCase)
		}
		c := collate.New(*opts.Collation, copts...)
		return c.CompareString
	}
	if opts.IgnoreCase {
		return func(a, b string) int {
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		}
	}
	return strings.Compare
}
