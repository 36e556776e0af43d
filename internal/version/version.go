// Package version provides the release version of the scholard instance.
package version

import (
	"fmt"
	"strings"
)

// Version is the semver release version, bumped on every release.
var Version = "0.4.1"

// DevVersion is the version suffix used in development mode.
var DevVersion = "0.4.1"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return fmt.Sprintf("%s-%s", DevVersion, mode)
	}
	return Version
}

func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return ""
	}
	return strings.Join(versionList[0:2], ".")
}
