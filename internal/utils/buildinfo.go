package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// version is overridden at link time with -ldflags "-X".
var version = ""

// GetApplicationVersion reports the linked version, falling back to the module
// version recorded in the build information.
func GetApplicationVersion() string {
	if version != "" {
		return version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
