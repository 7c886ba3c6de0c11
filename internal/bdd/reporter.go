// Package bdd provides Given/When/Then steps that log through zap and
// keep a per-test step report with text and image attachments.
package bdd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Attachment is an artifact written next to the step report.
type Attachment struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Step is a finished or running step of a test.
type Step struct {
	Title       string        `yaml:"title"`
	Depth       int           `yaml:"depth"`
	Started     time.Time     `yaml:"started"`
	Duration    time.Duration `yaml:"duration"`
	Failed      bool          `yaml:"failed,omitempty"`
	Attachments []Attachment  `yaml:"attachments,omitempty"`
}

// Reporter records the steps of one test.
type Reporter struct {
	name string
	dir  string
	log  *zap.Logger

	mu    sync.Mutex
	steps []Step
	open  []int
	seq   int
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewReporter creates a reporter writing attachments under
// resultsDir/<name>. An empty resultsDir keeps attachments in memory
// only (they are logged but not written).
func NewReporter(name, resultsDir string, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reporter{name: name, log: log.With(zap.String("test", name))}
	if resultsDir != "" {
		r.dir = filepath.Join(resultsDir, unsafeChars.ReplaceAllString(name, "_"))
	}
	return r
}

// TB is the part of testing.TB the reporter needs.
type TB interface {
	Name() string
	Cleanup(func())
	Logf(format string, args ...any)
}

// New creates a reporter for t and writes its report when t finishes.
func New(t TB, resultsDir string, log *zap.Logger) *Reporter {
	r := NewReporter(t.Name(), resultsDir, log)
	t.Cleanup(func() {
		if path, err := r.WriteReport(); err != nil {
			t.Logf("failed to write step report: %v", err)
		} else if path != "" {
			t.Logf("step report: %s", path)
		}
	})
	return r
}

// Log returns the reporter's logger.
func (r *Reporter) Log() *zap.Logger {
	return r.log
}

// Do runs fn as a step titled title and returns its error.
func (r *Reporter) Do(title string, fn func() error) (err error) {
	idx := r.begin(title)
	defer func() {
		r.end(idx, err != nil)
	}()
	return fn()
}

// Run runs fn as a step. A step ended by t.FailNow is still recorded.
func (r *Reporter) Run(title string, fn func()) {
	idx := r.begin(title)
	done := false
	defer func() {
		r.end(idx, !done)
	}()
	fn()
	done = true
}

func (r *Reporter) Given(title string, fn func()) { r.Run("Given "+title, fn) }
func (r *Reporter) When(title string, fn func())  { r.Run("When "+title, fn) }
func (r *Reporter) Then(title string, fn func())  { r.Run("Then "+title, fn) }
func (r *Reporter) And(title string, fn func())   { r.Run("And "+title, fn) }

func (r *Reporter) begin(title string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Title: title, Depth: len(r.open), Started: time.Now()})
	idx := len(r.steps) - 1
	r.open = append(r.open, idx)
	r.log.Info(strings.Repeat("  ", len(r.open)-1)+title, zap.Int("step", idx+1))
	return idx
}

func (r *Reporter) end(idx int, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.steps[idx]
	s.Duration = time.Since(s.Started)
	s.Failed = failed
	for i := len(r.open) - 1; i >= 0; i-- {
		if r.open[i] == idx {
			r.open = r.open[:i]
			break
		}
	}
	if failed {
		r.log.Warn("step failed", zap.String("title", s.Title), zap.Duration("took", s.Duration))
	}
}

// AttachText attaches text to the current step.
func (r *Reporter) AttachText(name, text string) {
	r.log.Info("attachment", zap.String("name", name), zap.String("text", text))
	r.attach(name, "txt", []byte(text))
}

// AttachPNG attaches an image to the current step.
func (r *Reporter) AttachPNG(name string, png []byte) {
	r.log.Info("attachment", zap.String("name", name), zap.Int("bytes", len(png)))
	r.attach(name, "png", png)
}

func (r *Reporter) attach(name, ext string, body []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a := Attachment{Name: name}
	if r.dir != "" {
		a.Path = filepath.Join(r.dir, fmt.Sprintf("%03d-%s.%s", r.seq, unsafeChars.ReplaceAllString(name, "_"), ext))
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			r.log.Warn("failed to create attachment dir", zap.Error(err))
			a.Path = ""
		} else if err := os.WriteFile(a.Path, body, 0o644); err != nil {
			r.log.Warn("failed to write attachment", zap.String("name", name), zap.Error(err))
			a.Path = ""
		}
	}
	if len(r.open) == 0 {
		r.steps = append(r.steps, Step{Title: name, Depth: 0, Started: time.Now()})
		r.steps[len(r.steps)-1].Attachments = []Attachment{a}
		return
	}
	cur := &r.steps[r.open[len(r.open)-1]]
	cur.Attachments = append(cur.Attachments, a)
}

// Steps returns a copy of the recorded steps.
func (r *Reporter) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// WriteReport writes steps.yaml into the attachment directory and
// returns its path. Nothing is written without a results directory.
func (r *Reporter) WriteReport() (string, error) {
	if r.dir == "" {
		return "", nil
	}
	steps := r.Steps()
	if len(steps) == 0 {
		return "", nil
	}
	body, err := yaml.Marshal(map[string]any{"test": r.name, "steps": steps})
	if err != nil {
		return "", fmt.Errorf("failed to encode step report: %w", err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}
	path := filepath.Join(r.dir, "steps.yaml")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write step report: %w", err)
	}
	return path, nil
}
