// Package version reports the version of ppcasm a binary was built with.
package version

import "runtime/debug"

const modulePath = "github.com/tetratelabs/ppcasm"

// Default is returned when the build carries no version, e.g. under go run
// or go test.
const Default = "dev"

// GetVersion returns the version of ppcasm in the build info of the running
// binary. That is the main module version when the binary is ppcasm itself,
// or the required version when ppcasm is a dependency.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Default
	}
	return versionOf(info)
}

func versionOf(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
		return Default
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		// A replaced module reports the version of its replacement.
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return Default
}
