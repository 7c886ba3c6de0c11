package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "bo-e2e.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, "admin", c.Admin.Username)
	assert.True(t, c.Browser.Headless)
	assert.False(t, c.Browser.Maximized)
	assert.Equal(t, 30*time.Second, c.Browser.Timeout)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.InDelta(t, 0.1, c.Snapshots.Threshold, 1e-9)
	assert.Equal(t, "lc_", c.Database.TablePrefix)
	assert.False(t, c.Database.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfig(t, `
base_url: http://shop.local/
admin:
  username: root
  password: hunter2
browser:
  maximized: true
  slow_mo: 250ms
snapshots:
  threshold: 0.3
  dir: snaps
`)

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://shop.local", c.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "root", c.Admin.Username)
	assert.Equal(t, "hunter2", c.Admin.Password)
	assert.True(t, c.Browser.Maximized)
	assert.Equal(t, 250*time.Millisecond, c.Browser.SlowMo)
	assert.InDelta(t, 0.3, c.Snapshots.Threshold, 1e-9)
	assert.Equal(t, dir, c.Root)
	assert.Equal(t, filepath.Join(dir, "snaps"), c.Path(c.Snapshots.Dir))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://backoffice.test")
	t.Setenv("HEADLESS", "false")
	t.Setenv("SKIP_SNAPSHOTS", "true")
	t.Setenv("SNAPSHOT_THRESHOLD", "0.05")
	t.Setenv("ADMIN_PASSWORD", "from-env")

	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://backoffice.test", c.BaseURL)
	assert.False(t, c.Browser.Headless)
	assert.True(t, c.Snapshots.Skip)
	assert.InDelta(t, 0.05, c.Snapshots.Threshold, 1e-9)
	assert.Equal(t, "from-env", c.Admin.Password)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		config string
	}{
		{name: "no scheme", config: "base_url: shop.local"},
		{name: "threshold above one", config: "snapshots:\n  threshold: 1.5"},
		{name: "negative threshold", config: "snapshots:\n  threshold: -0.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.config))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig(t *testing.T) {
	db := &DatabaseConfig{
		Host:     "db",
		Port:     3306,
		Name:     "litecart",
		User:     "lc",
		Password: "pw",
	}

	assert.Equal(t, "lc:pw@tcp(db:3306)/litecart?parseTime=true&charset=utf8mb4", db.GetDSN())
	assert.True(t, db.Enabled())
}

func TestPath(t *testing.T) {
	c := &Config{Root: "/srv/suite"}

	assert.Equal(t, "/srv/suite/testdata/messages.ini", c.Path("testdata/messages.ini"))
	assert.Equal(t, "/etc/messages.ini", c.Path("/etc/messages.ini"))
	assert.Equal(t, "", c.Path(""))
}
