// SPDX-License-Identifier: MIT
//
// Package build carries build metadata (application name, timestamp,
// commit, version) embedded through linker flags. Development builds
// fall back to "dev" defaults when no flags were set.
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Package-level variables populated by -ldflags during compilation, e.g.
//
//	go build -ldflags "-X vsthost/pkg/build.buildVersion=0.1.0"
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "vsthost",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies whatever build information the linker provided into
// the buildFlags struct. Must be called early in program startup.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
