package cli

import "github.com/matzehuels/etymograph/pkg/buildinfo"

// SetVersion overrides the build information shown by --version. The main
// package calls it when values are injected into main rather than into
// buildinfo via ldflags. Empty values leave the current value in place.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}
