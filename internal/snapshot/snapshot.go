// Package snapshot matches page screenshots against stored baselines.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/imagecmp"
)

// MismatchError is returned when a screenshot differs from its baseline.
type MismatchError struct {
	Name     string
	Baseline string
	// Actual and Diff are written next to the baseline for inspection.
	Actual string
	Diff   string
	Cause  *imagecmp.MismatchError
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("snapshot %q does not match %s: %v", e.Name, e.Baseline, e.Cause)
}

func (e *MismatchError) Unwrap() error { return e.Cause }

// Matcher compares screenshots with baselines stored in Dir.
type Matcher struct {
	Dir       string
	Threshold float64
	// Skip turns every match into a no-op.
	Skip bool
	// Update overwrites baselines with the given screenshots.
	Update bool
	Log    *zap.Logger
}

// FromConfig returns a matcher for the snapshot settings of cfg.
func FromConfig(cfg *config.Config, log *zap.Logger) *Matcher {
	return &Matcher{
		Dir:       cfg.Path(cfg.Snapshots.Dir),
		Threshold: cfg.Snapshots.Threshold,
		Skip:      cfg.Snapshots.Skip,
		Update:    cfg.Snapshots.Update,
		Log:       log,
	}
}

var nameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Path returns the baseline file of the snapshot name.
func (m *Matcher) Path(name string) string {
	return filepath.Join(m.Dir, nameChars.ReplaceAllString(name, "_")+".png")
}

func (m *Matcher) logger() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}

// Match compares the PNG screenshot with the baseline of name. A missing
// baseline is recorded from the screenshot.
func (m *Matcher) Match(name string, screenshot []byte) error {
	log := m.logger().With(zap.String("snapshot", name))
	if m.Skip {
		log.Debug("snapshot check skipped")
		return nil
	}

	path := m.Path(name)
	_, err := os.Stat(path)
	switch {
	case m.Update || errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(m.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
		if err := os.WriteFile(path, screenshot, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		log.Info("snapshot baseline written", zap.String("path", path))
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat snapshot: %w", err)
	}

	baseline, err := imagecmp.Load(path)
	if err != nil {
		return err
	}
	actual, err := imagecmp.Decode(screenshot)
	if err != nil {
		return err
	}

	err = imagecmp.Compare(baseline, actual, m.Threshold)
	var mm *imagecmp.MismatchError
	if !errors.As(err, &mm) {
		return err
	}

	out := &MismatchError{Name: name, Baseline: path, Cause: mm}
	out.Actual = writeSibling(log, path, ".actual.png", screenshot)
	if diff, err := imagecmp.EncodePNG(mm.Diff); err == nil {
		out.Diff = writeSibling(log, path, ".diff.png", diff)
	}
	return out
}

func writeSibling(log *zap.Logger, baseline, suffix string, data []byte) string {
	p := baseline[:len(baseline)-len(filepath.Ext(baseline))] + suffix
	if err := os.WriteFile(p, data, 0o644); err != nil {
		log.Warn("failed to write snapshot artifact", zap.String("path", p), zap.Error(err))
		return ""
	}
	return p
}
