package app

import (
	"fmt"
	"runtime/debug"
)

// Set by ldflags in release builds. Unset fields fall back to the VCS
// stamp the go tool embeds in the binary.
var (
	buildVersion = ""
	buildCommit  = ""
	buildDate    = ""
)

func SetBuildInfo(version, commit, date string) {
	if version != "" && version != "dev" {
		buildVersion = version
	}
	if commit != "" && commit != "none" {
		buildCommit = commit
	}
	if date != "" && date != "unknown" {
		buildDate = date
	}
}

func BuildVersionString() string {
	info, _ := debug.ReadBuildInfo()
	version, commit, date := resolveBuildInfo(info)
	return fmt.Sprintf("%s (%s) %s", version, commit, date)
}

// resolveBuildInfo prefers ldflag values, then the module version and
// vcs.* settings from info, then placeholders.
func resolveBuildInfo(info *debug.BuildInfo) (version, commit, date string) {
	version, commit, date = buildVersion, buildCommit, buildDate
	if info != nil {
		if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" && len(s.Value) >= 7 {
					commit = s.Value[:7]
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}
	return firstNonEmpty(version, "dev"), firstNonEmpty(commit, "none"), firstNonEmpty(date, "unknown")
}
