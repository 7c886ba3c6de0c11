package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/backoffice-qa/backoffice-e2e/internal/fixtures"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/sweeper"
	"github.com/backoffice-qa/backoffice-e2e/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configPathFlag = ""
		versionOutputFlag = "text"
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMessagesConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bo-e2e.yaml"), []byte("messages:\n  file: messages.ini\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.ini"), []byte(`
[General]
OnCreateSuccess = Changes saved successfully

[Admin.Login]
ErrorOnEmptyUsername = You must provide a username
`), 0o644))
	return dir
}

func TestMessagesCommand(t *testing.T) {
	dir := writeMessagesConfig(t)

	t.Run("prints a message", func(t *testing.T) {
		out, err := execute(t, "--config", dir, "messages", "General OnCreateSuccess")
		require.NoError(t, err)
		assert.Equal(t, "Changes saved successfully\n", out)
	})

	t.Run("lists keys", func(t *testing.T) {
		out, err := execute(t, "--config", dir, "messages")
		require.NoError(t, err)
		assert.Contains(t, out, "General OnCreateSuccess")
		assert.Contains(t, out, "Admin.Login ErrorOnEmptyUsername")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := execute(t, "--config", dir, "messages", "General Missing")
		assert.Error(t, err)
	})
}

func TestVersionYAML(t *testing.T) {
	out, err := execute(t, "version", "-o", "yaml")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestRunOptionsEnv(t *testing.T) {
	tests := []struct {
		name    string
		opts    runOptions
		changed []string
		want    []string
	}{
		{
			name: "nothing set",
			opts: runOptions{snapshotThreshold: -1},
		},
		{
			name:    "headed and maximized",
			opts:    runOptions{headed: true, maximized: true, snapshotThreshold: -1},
			changed: []string{"headed", "maximized"},
			want:    []string{"HEADLESS=false", "MAXIMIZED=true"},
		},
		{
			name:    "snapshots",
			opts:    runOptions{skipSnapshots: true, updateSnapshots: false, snapshotThreshold: 0.25},
			changed: []string{"skip-snapshots", "update-snapshots", "snapshot-threshold"},
			want:    []string{"SKIP_SNAPSHOTS=true", "UPDATE_SNAPSHOTS=false", "SNAPSHOT_THRESHOLD=0.25"},
		},
		{
			name: "base url",
			opts: runOptions{baseURL: "http://shop.local", snapshotThreshold: -1},
			want: []string{"BASE_URL=http://shop.local"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := func(name string) bool {
				for _, c := range tt.changed {
					if c == name {
						return true
					}
				}
				return false
			}
			assert.Equal(t, tt.want, tt.opts.env(changed))
		})
	}
}

func TestRunOptionsArgs(t *testing.T) {
	assert.Equal(t, []string{"test", "-tags", "e2e", "-count=1", e2ePackages}, runOptions{}.args())
	assert.Equal(t,
		[]string{"test", "-tags", "e2e", "-count=1", "-v", "-run", "TestGeozones", e2ePackages},
		runOptions{verbose: true, run: "TestGeozones"}.args())
}

func TestSeedEntity(t *testing.T) {
	data, err := fixtures.Parse([]byte(`
countries:
  total: 244
geozones:
  countries: [KZ, FR]
products:
  images: [duck.png]
`))
	require.NoError(t, err)

	e, err := seedEntity("geozone", data)
	require.NoError(t, err)
	g := e.(*models.GeozoneEntity)
	require.Len(t, g.Zones, 2)
	assert.Equal(t, "KZ", g.Zones[0].Country)

	e, err = seedEntity("product", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"duck.png"}, e.(*models.ProductEntity).Images)

	e, err = seedEntity("user", data)
	require.NoError(t, err)
	assert.Equal(t, models.EntityTypeUser, e.EntityType())

	_, err = seedEntity("order", data)
	assert.Error(t, err)
}

func TestSeedRejectsUnknownType(t *testing.T) {
	_, err := execute(t, "seed", "order")
	assert.Error(t, err)
}

func TestPrintSweep(t *testing.T) {
	g := &models.GeozoneEntity{ID: "7", Name: models.FixturePrefix + "geozone-1"}
	p := &models.ProductEntity{ID: "9", Name: models.FixturePrefix + "product-1"}
	res := &sweeper.Result{Found: []models.Entity{g, p}, Deleted: []models.Entity{g}}

	var dry bytes.Buffer
	printSweep(&dry, res, true)
	assert.Contains(t, dry.String(), "geozone\t7\t")
	assert.Contains(t, dry.String(), "found 2 leaked fixture(s)")

	var out bytes.Buffer
	printSweep(&out, res, false)
	assert.Contains(t, out.String(), "deleted 1 of 2 leaked fixture(s)")
}
