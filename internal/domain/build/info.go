// Package build describes the running binary.
package build

import "strings"

const repoURL = "https://github.com/bnema/dumbmux"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// String formats the info as "version (commit, built date, goX)", omitting
// unknown parts.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}

	var parts []string
	if known(i.Commit) {
		parts = append(parts, i.Commit)
	}
	if known(i.BuildDate) {
		parts = append(parts, "built "+i.BuildDate)
	}
	if known(i.GoVersion) {
		parts = append(parts, i.GoVersion)
	}
	if len(parts) == 0 {
		return version
	}
	return version + " (" + strings.Join(parts, ", ") + ")"
}

func known(s string) bool {
	return s != "" && s != "unknown"
}

// RepoURL returns the project repository URL.
func RepoURL() string {
	return repoURL
}
