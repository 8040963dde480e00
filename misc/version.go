// Package misc holds tiny cross-cutting helpers that do not belong to any
// single component: build identification used by logging and reports.
package misc

import "runtime/debug"

const appName = "scenec"

// GetAppName returns the program name used for default file names and
// log scoping.
func GetAppName() string {
	return appName
}

// GetVersion returns the module version embedded by the Go toolchain, or
// "devel" when unavailable (e.g. when building without module info).
func GetVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "devel"
}

// GetGitHash returns the VCS revision embedded by the Go toolchain at build
// time, or "unknown" when the binary was not built from a VCS checkout.
func GetGitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
