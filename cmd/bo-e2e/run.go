package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
)

// e2ePackages is the package pattern holding the browser tests.
const e2ePackages = "./tests/e2e/..."

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the browser suite against the configured back office",
	Long: `Run executes the e2e tests with "go test -tags e2e".

Flags are passed to the tests as environment variables, so a test binary
started directly picks up the same settings from the environment.`,
	RunE: runSuite,
}

type runOptions struct {
	baseURL           string
	headed            bool
	maximized         bool
	skipSnapshots     bool
	updateSnapshots   bool
	snapshotThreshold float64
	run               string
	verbose           bool
}

var runFlags runOptions

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.baseURL, "base-url", "", "Back-office base URL")
	f.BoolVar(&runFlags.headed, "headed", false, "Show the browser window")
	f.BoolVar(&runFlags.maximized, "maximized", false, "Run the browser maximized")
	f.BoolVar(&runFlags.skipSnapshots, "skip-snapshots", false, "Skip screenshot comparisons")
	f.BoolVar(&runFlags.updateSnapshots, "update-snapshots", false, "Overwrite snapshot baselines")
	f.Float64Var(&runFlags.snapshotThreshold, "snapshot-threshold", -1, "Snapshot mismatch threshold in [0, 1]")
	f.StringVar(&runFlags.run, "run", "", "Only run tests matching this regexp")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "Verbose test output")
}

// env returns the environment overrides for the flags that were set.
func (o runOptions) env(changed func(name string) bool) []string {
	var env []string
	if o.baseURL != "" {
		env = append(env, "BASE_URL="+o.baseURL)
	}
	if changed("headed") {
		env = append(env, "HEADLESS="+strconv.FormatBool(!o.headed))
	}
	if changed("maximized") {
		env = append(env, "MAXIMIZED="+strconv.FormatBool(o.maximized))
	}
	if changed("skip-snapshots") {
		env = append(env, "SKIP_SNAPSHOTS="+strconv.FormatBool(o.skipSnapshots))
	}
	if changed("update-snapshots") {
		env = append(env, "UPDATE_SNAPSHOTS="+strconv.FormatBool(o.updateSnapshots))
	}
	if o.snapshotThreshold >= 0 {
		env = append(env, "SNAPSHOT_THRESHOLD="+strconv.FormatFloat(o.snapshotThreshold, 'f', -1, 64))
	}
	if configPathFlag != "" {
		env = append(env, "BO_E2E_CONFIG="+configPathFlag)
	}
	return env
}

func (o runOptions) args() []string {
	args := []string{"test", "-tags", "e2e", "-count=1"}
	if o.verbose {
		args = append(args, "-v")
	}
	if o.run != "" {
		args = append(args, "-run", o.run)
	}
	return append(args, e2ePackages)
}

func runSuite(cmd *cobra.Command, args []string) error {
	if runFlags.snapshotThreshold > 1 {
		return fmt.Errorf("--snapshot-threshold must be within [0, 1], got %v", runFlags.snapshotThreshold)
	}
	_, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	env := runFlags.env(func(name string) bool { return cmd.Flags().Changed(name) })
	goArgs := runFlags.args()
	log.Info("Running e2e suite", zap.Strings("args", goArgs), zap.Strings("env", env))

	c := exec.CommandContext(cmd.Context(), "go", goArgs...)
	c.Dir = config.ProjectRoot()
	c.Env = append(os.Environ(), env...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("e2e suite failed: %w", err)
	}
	return nil
}
