package version

import "runtime/debug"

var version = "dev"

// Version returns the build string embedded via -ldflags or module metadata.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		return info.Main.Version
	}
	return version
}
