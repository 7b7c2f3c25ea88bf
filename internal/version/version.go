// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package version formats the build metadata printed by the version command.
package version

import (
	"runtime"

	"github.com/mia-platform/smhi/internal/info"
)

var (
	// Version defaults to the value injected in the info package.
	Version = info.Version
	// BuildDate defaults to the value injected in the info package.
	BuildDate = info.BuildDate
)

// ServiceVersionInformation returns the version string for the current binary.
func ServiceVersionInformation() string {
	return String(Version, BuildDate, runtime.Version())
}

// String formats the version metadata for display.
func String(version, buildDate, runtimeVersion string) string {
	outputString := version
	if buildDate != "" {
		outputString += " (" + buildDate + ")"
	}

	return outputString + ", Go Version: " + runtimeVersion
}
