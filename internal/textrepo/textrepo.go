// Package textrepo reads expected UI messages from an ini catalog.
//
// Keys are addressed as "Section Key". A value written as r"..." or
// r'...' is a regular expression.
package textrepo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
)

// ErrMessageNotFound is returned for an unknown section or key.
var ErrMessageNotFound = errors.New("message not found")

// Message is a catalog entry: either plain text or a pattern.
type Message struct {
	Key     string
	Text    string
	Pattern *regexp.Regexp
}

// Expected returns the value to assert against: a string or a
// *regexp.Regexp.
func (m Message) Expected() any {
	if m.Pattern != nil {
		return m.Pattern
	}
	return m.Text
}

// Match reports whether s equals the text or matches the pattern.
func (m Message) Match(s string) bool {
	if m.Pattern != nil {
		return m.Pattern.MatchString(s)
	}
	return s == m.Text
}

func (m Message) String() string {
	if m.Pattern != nil {
		return "r'" + m.Pattern.String() + "'"
	}
	return m.Text
}

// Repository is a loaded message catalog.
type Repository struct {
	file *ini.File
}

var loadOptions = ini.LoadOptions{IgnoreInlineComment: true}

// Load reads the catalog at path.
func Load(path string) (*Repository, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages from %s: %w", path, err)
	}
	return &Repository{file: f}, nil
}

// Parse reads a catalog from memory.
func Parse(data []byte) (*Repository, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return &Repository{file: f}, nil
}

// Get returns the message stored under "Section Key".
func (r *Repository) Get(path string) (Message, error) {
	section, key, ok := strings.Cut(path, " ")
	if !ok || section == "" || key == "" || strings.Contains(key, " ") {
		return Message{}, fmt.Errorf("message key %q must look like \"Section Key\"", path)
	}

	sec, err := r.file.GetSection(section)
	if err != nil {
		return Message{}, fmt.Errorf("%w: section %q", ErrMessageNotFound, section)
	}
	if !sec.HasKey(key) {
		return Message{}, fmt.Errorf("%w: %q", ErrMessageNotFound, path)
	}

	value := sec.Key(key).String()
	msg := Message{Key: path, Text: value}
	if len(value) >= 3 && (strings.HasPrefix(value, `r"`) || strings.HasPrefix(value, `r'`)) {
		re, err := regexp.Compile(value[2 : len(value)-1])
		if err != nil {
			return Message{}, fmt.Errorf("invalid pattern for %q: %w", path, err)
		}
		msg.Pattern = re
	}
	return msg, nil
}

// MustGet is Get that panics on error.
func (r *Repository) MustGet(path string) Message {
	m, err := r.Get(path)
	if err != nil {
		panic(err)
	}
	return m
}

// Keys lists every "Section Key" in the catalog.
func (r *Repository) Keys() []string {
	var keys []string
	for _, sec := range r.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		for _, k := range sec.KeyStrings() {
			keys = append(keys, sec.Name()+" "+k)
		}
	}
	return keys
}

var (
	defaultRepo *Repository
	defaultErr  error
	defaultOnce sync.Once
)

// Default returns the catalog configured by messages.file.
func Default() (*Repository, error) {
	defaultOnce.Do(func() {
		cfg, err := config.Get()
		if err != nil {
			defaultErr = err
			return
		}
		defaultRepo, defaultErr = Load(cfg.Path(cfg.Messages.File))
	})
	return defaultRepo, defaultErr
}
