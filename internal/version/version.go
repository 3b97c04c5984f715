// Where: cli/internal/version/version.go
// What: Version string for --version.
// Why: Report which build of the integration driver produced a firmware image.
package version

import (
	"runtime/debug"
	"strings"
)

const devVersion = "dev"

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the module version when installed from a tagged
// release, otherwise the short VCS revision with a "(dirty)" marker for
// modified trees. Falls back to "dev".
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return devVersion
	}
	return describe(info)
}

func describe(info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	revision := settings["vcs.revision"]
	if revision == "" {
		return devVersion
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}

	parts := []string{revision}
	if settings["vcs.modified"] == "true" {
		parts = append(parts, "(dirty)")
	}
	return strings.Join(parts, " ")
}
