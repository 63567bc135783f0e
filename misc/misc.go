// Package misc provides program identification.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const appName = "foflow"

// GetAppName returns the program name used for logs and reports.
func GetAppName() string {
	if len(os.Args) > 0 {
		if name := strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0])); name != "" && name != "." {
			return name
		}
	}
	return appName
}

// GetVersion returns the module version recorded in the binary.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns the VCS revision the binary was built from.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	hash, dirty := "unknown", false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty {
		hash += "-dirty"
	}
	return hash
}
