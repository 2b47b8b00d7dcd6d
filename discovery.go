// FILE: lixenwraith/envconfig/discovery.go
package envconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures the search for a snapshot file
type FileDiscoveryOptions struct {
	// Base name of the file, without extension
	Name string

	// Extensions to try, in order
	Extensions []string

	// Directories searched before the defaults
	Paths []string

	// Environment key naming an explicit path
	EnvVar string

	// Search XDG config directories
	UseXDG bool

	// Search the working directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns options searching for appName with every
// format FromFile reads, honoring APPNAME_CONFIG as an explicit path
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".json", ".yaml", ".yml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile returns the first existing snapshot file described by opts,
// reading EnvVar and the XDG variables from env. An empty result means no
// file was found, which is not an error.
func DiscoverFile(opts FileDiscoveryOptions, env Snapshot) string {
	if opts.EnvVar != "" {
		if path, ok := env.Lookup(opts.EnvVar); ok && path != "" {
			return path
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}
	if opts.UseXDG {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name, env)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// xdgConfigPaths returns XDG-compliant config search paths
func xdgConfigPaths(appName string, env Snapshot) []string {
	var paths []string

	if home, ok := env.Lookup("XDG_CONFIG_HOME"); ok && home != "" {
		paths = append(paths, filepath.Join(home, appName))
	} else if home, ok := env.Lookup("HOME"); ok && home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if dirs, ok := env.Lookup("XDG_CONFIG_DIRS"); ok && dirs != "" {
		for _, dir := range filepath.SplitList(dirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}
	return paths
}
