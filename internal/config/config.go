package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	cfg     *Config
	cfgErr  error
	once    sync.Once
	mu      sync.RWMutex
	envOnce sync.Once
)

// DefaultBaseURL is used when neither a config file nor BASE_URL sets one.
const DefaultBaseURL = "http://192.168.56.104"

// Config represents the suite configuration
type Config struct {
	BaseURL   string          `mapstructure:"base_url"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`
	API       APIConfig       `mapstructure:"api"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Fixtures  FixturesConfig  `mapstructure:"fixtures"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Results   ResultsConfig   `mapstructure:"results"`

	// Root is the directory relative paths are resolved against.
	Root string `mapstructure:"-"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type BrowserConfig struct {
	Headless  bool          `mapstructure:"headless"`
	SlowMo    time.Duration `mapstructure:"slow_mo"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Maximized bool          `mapstructure:"maximized"`
	Width     int           `mapstructure:"width"`
	Height    int           `mapstructure:"height"`
	// AttachConsoleErrors attaches every browser console error to the
	// current step as it happens, not only to the end-of-test summary.
	AttachConsoleErrors bool `mapstructure:"attach_console_errors"`
	Screenshots         bool `mapstructure:"screenshots"`
}

type SnapshotsConfig struct {
	Skip      bool    `mapstructure:"skip"`
	Update    bool    `mapstructure:"update"`
	Threshold float64 `mapstructure:"threshold"`
	Dir       string  `mapstructure:"dir"`
}

type APIConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
}

type MessagesConfig struct {
	File string `mapstructure:"file"`
}

type FixturesConfig struct {
	File      string `mapstructure:"file"`
	ImagesDir string `mapstructure:"images_dir"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Name        string `mapstructure:"name"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	TablePrefix string `mapstructure:"table_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ResultsConfig struct {
	Dir string `mapstructure:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "secret")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", time.Duration(0))
	v.SetDefault("browser.timeout", 30*time.Second)
	v.SetDefault("browser.maximized", false)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.attach_console_errors", true)
	v.SetDefault("browser.screenshots", true)

	v.SetDefault("snapshots.skip", false)
	v.SetDefault("snapshots.update", false)
	v.SetDefault("snapshots.threshold", 0.1)
	v.SetDefault("snapshots.dir", "testdata/snapshots")

	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.debug", false)

	v.SetDefault("messages.file", "testdata/messages.ini")
	v.SetDefault("fixtures.file", "testdata/fixtures.yaml")
	v.SetDefault("fixtures.images_dir", "testdata/images")

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "litecart")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.table_prefix", "lc_")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("results.dir", "test-results")
}

// Short env names kept for compatibility with CI pipelines; the
// generic KEY_SUBKEY form works for every key as well.
var envAliases = map[string][]string{
	"base_url":                      {"BASE_URL"},
	"admin.username":                {"ADMIN_USERNAME"},
	"admin.password":                {"ADMIN_PASSWORD"},
	"browser.headless":              {"BROWSER_HEADLESS", "HEADLESS"},
	"browser.slow_mo":               {"BROWSER_SLOW_MO", "SLOW_MO"},
	"browser.maximized":             {"BROWSER_MAXIMIZED", "MAXIMIZED"},
	"browser.attach_console_errors": {"BROWSER_ATTACH_CONSOLE_ERRORS"},
	"browser.screenshots":           {"BROWSER_SCREENSHOTS", "SCREENSHOTS"},
	"snapshots.skip":                {"SNAPSHOTS_SKIP", "SKIP_SNAPSHOTS"},
	"snapshots.update":              {"SNAPSHOTS_UPDATE", "UPDATE_SNAPSHOTS"},
	"snapshots.threshold":           {"SNAPSHOTS_THRESHOLD", "SNAPSHOT_THRESHOLD"},
	"messages.file":                 {"MESSAGES_FILE"},
	"database.host":                 {"DATABASE_HOST", "DB_HOST"},
	"database.password":             {"DATABASE_PASSWORD", "DB_PASSWORD"},
}

// loadDotEnv loads .env from the project root if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv(root string) {
	envOnce.Do(func() {
		p := filepath.Join(root, ".env")
		if _, err := os.Stat(p); err != nil {
			return
		}
		_ = godotenv.Load(p)
	})
}

// Load reads configuration from configPath (a directory holding
// bo-e2e.yaml, or the file itself), .env and the environment.
// A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	root := ProjectRoot()
	loadDotEnv(root)

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath == "" {
		configPath = root
	}
	if st, err := os.Stat(configPath); err == nil && !st.IsDir() {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("bo-e2e")
		v.SetConfigType("yaml")
		v.AddConfigPath(configPath)
	}

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		found = false
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.Root = root
	if found {
		c.Root = filepath.Dir(v.ConfigFileUsed())
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if found {
		watch(v, c.Root)
	}

	return c, nil
}

// watch swaps the shared configuration when the config file changes.
func watch(v *viper.Viper, root string) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		next.Root = root
		next.BaseURL = strings.TrimRight(next.BaseURL, "/")
		if next.Validate() != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if cfg != nil {
			cfg = next
		}
	})
	v.WatchConfig()
}

// Get returns the shared configuration, loading it on first use.
// The first load error is sticky.
func Get() (*Config, error) {
	once.Do(func() {
		c, err := Load(os.Getenv("BO_E2E_CONFIG"))
		mu.Lock()
		cfg, cfgErr = c, err
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return cfg, cfgErr
}

// MustGet returns the shared configuration and panics on error
func MustGet() *Config {
	c, err := Get()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return c
}

// Validate checks values that would otherwise fail late inside a test.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://, got %q", c.BaseURL)
	}
	if c.Snapshots.Threshold < 0 || c.Snapshots.Threshold > 1 {
		return fmt.Errorf("snapshots.threshold must be within [0, 1], got %v", c.Snapshots.Threshold)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

// Path resolves p against the configuration root unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// GetDSN returns the MySQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Enabled reports whether a database host is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// ProjectRoot walks up from the working directory to the nearest go.mod.
// Falls back to the working directory.
func ProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}
