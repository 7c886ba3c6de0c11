package bdd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func TestStepsArePrefixedAndNested(t *testing.T) {
	r := NewReporter("TestLogin", "", zaptest.NewLogger(t))

	r.Given("login page is opened", func() {
		r.And("admin credentials are known", func() {})
	})
	r.When("user logs in", func() {})
	r.Then("main page is shown", func() {})

	steps := r.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, "Given login page is opened", steps[0].Title)
	assert.Equal(t, "And admin credentials are known", steps[1].Title)
	assert.Equal(t, 1, steps[1].Depth)
	assert.Equal(t, "When user logs in", steps[2].Title)
	assert.Equal(t, 0, steps[2].Depth)
	assert.Equal(t, "Then main page is shown", steps[3].Title)
	for _, s := range steps {
		assert.False(t, s.Failed, s.Title)
	}
}

func TestDoRecordsFailure(t *testing.T) {
	r := NewReporter("TestDo", "", zaptest.NewLogger(t))
	boom := errors.New("boom")

	err := r.Do("Clicking button", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, r.Do("Filling input", func() error { return nil }))

	steps := r.Steps()
	assert.True(t, steps[0].Failed)
	assert.False(t, steps[1].Failed)
}

func TestAttachmentsAndReport(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter("TestCatalog/create product", dir, zaptest.NewLogger(t))

	r.Then("entry is found", func() {
		r.AttachText("Entry Found", "At Row 3")
	})
	r.AttachText("Browser Errors (All)", "none")

	steps := r.Steps()
	require.Len(t, steps, 2)
	require.Len(t, steps[0].Attachments, 1)
	body, err := os.ReadFile(steps[0].Attachments[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "At Row 3", string(body))
	assert.Equal(t, filepath.Join(dir, "TestCatalog_create_product"), filepath.Dir(steps[0].Attachments[0].Path))

	path, err := r.WriteReport()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var report struct {
		Test  string `yaml:"test"`
		Steps []Step `yaml:"steps"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &report))
	assert.Equal(t, "TestCatalog/create product", report.Test)
	assert.Len(t, report.Steps, 2)
}

func TestNewWritesReportOnCleanup(t *testing.T) {
	dir := t.TempDir()
	var path string
	t.Run("inner", func(t *testing.T) {
		r := New(t, dir, zaptest.NewLogger(t))
		r.Given("something", func() {})
		path = filepath.Join(dir, "TestNewWritesReportOnCleanup_inner", "steps.yaml")
	})
	assert.FileExists(t, path)
}
