// Package version reports build information for ppuview
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"
)

const unknown = "unknown"

var (
	// Set at build time via -ldflags "-X ppuview/internal/version.Version=..."
	Version   = "dev"
	GitCommit = unknown
	BuildTime = unknown
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	Modified  bool   `json:"modified"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo merges the ldflags values with the VCS stamp the Go
// toolchain embeds. ldflags win.
func GetBuildInfo() BuildInfo {
	bi := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.GitCommit == unknown {
				bi.GitCommit = s.Value
			}
		case "vcs.time":
			if bi.BuildTime == unknown {
				bi.BuildTime = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

// GetVersion returns the version, with the commit appended for dev builds
func GetVersion() string {
	bi := GetBuildInfo()
	if bi.Version == "dev" && bi.GitCommit != unknown {
		v := "dev-" + shortCommit(bi.GitCommit)
		if bi.Modified {
			v += "-dirty"
		}
		return v
	}
	return bi.Version
}

// GetDetailedVersion returns a one-line description of the build
func GetDetailedVersion() string {
	bi := GetBuildInfo()
	s := "ppuview version " + GetVersion()

	if bi.BuildTime != unknown {
		if t, err := time.Parse(time.RFC3339, bi.BuildTime); err == nil {
			s += " built " + t.UTC().Format("2006-01-02 15:04:05")
		} else {
			s += " built " + bi.BuildTime
		}
	}
	return s + fmt.Sprintf(" with %s for %s", bi.GoVersion, bi.Platform)
}

// WriteBuildInfo prints every build field to w
func WriteBuildInfo(w io.Writer) {
	bi := GetBuildInfo()
	fmt.Fprintf(w, "Version:    %s\n", GetVersion())
	fmt.Fprintf(w, "Git Commit: %s\n", bi.GitCommit)
	fmt.Fprintf(w, "Modified:   %t\n", bi.Modified)
	fmt.Fprintf(w, "Build Time: %s\n", bi.BuildTime)
	fmt.Fprintf(w, "Go Version: %s\n", bi.GoVersion)
	fmt.Fprintf(w, "Platform:   %s\n", bi.Platform)
}
