// Package version holds build information of the bo-e2e runner, set
// at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag or branch name.
	Version = "dev"
	// GitCommit is the short commit SHA.
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the build information as printed by `bo-e2e version -o yaml`.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns "v1.2.0 (abc1234)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}

// Full adds build date and Go version to String.
func Full() string {
	return fmt.Sprintf("%s built %s with %s", String(), BuildDate, runtime.Version())
}
