package app

import (
	"fmt"
	"runtime/debug"
)

// Version is stamped at release time:
//
//	go build -ldflags "-X github.com/heartmarshall/yomitan-backend/internal/app.Version=v1.2.0" ./cmd/server
var Version = "dev"

// BuildVersion returns Version with the VCS revision the binary was built
// from, when the toolchain recorded one.
func BuildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	return formatVersion(Version, info.Settings)
}

func formatVersion(version string, settings []debug.BuildSetting) string {
	var rev, at string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return version
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "-dirty"
	}
	if at == "" {
		return fmt.Sprintf("%s (%s)", version, rev)
	}
	return fmt.Sprintf("%s (%s, %s)", version, rev, at)
}
