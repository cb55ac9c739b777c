// Package version reports what build of missionsync is running
package version

import "runtime/debug"

// Service is the name reported by the API and stamped into journal client info
const Service = "missionsync-api"

// Release stamps, set with
// -ldflags "-X missionsync/internal/core/version.release=v0.3.0 -X missionsync/internal/core/version.built=2026-10-01"
var (
	release = "dev"
	built   = "unknown"
)

// BuildInfo is the /meta/version payload
type BuildInfo struct {
	Service string `json:"service" example:"missionsync-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit"  example:"1f3c9ab"`
	Date    string `json:"date"    example:"2026-10-01"`
	Go      string `json:"go"      example:"go1.25.0"`
}

// Info reads the ldflags stamps and the toolchain's embedded build info
func Info() BuildInfo {
	out := BuildInfo{Service: Service, Version: release, Commit: "unknown", Date: built}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	out.Go = bi.GoVersion
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && len(s.Value) >= 7:
			out.Commit = s.Value[:7]
		case s.Key == "vcs.time" && out.Date == "unknown":
			out.Date = s.Value
		}
	}
	return out
}

// Commit is the short vcs revision, "unknown" outside a vcs build
func Commit() string { return Info().Commit }
