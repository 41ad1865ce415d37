// Package deps reports availability of the external tooling subhook relies on.
package deps

import (
	"fmt"
	"os"
)

// Status reports the availability of the extraction script.
type Status struct {
	Path      string
	Available bool
	Detail    string
}

// CheckScript evaluates whether the configured extraction script can be
// invoked: it must exist, be a regular file, and carry an execute bit.
func CheckScript(path string) Status {
	status := Status{Path: path}
	if path == "" {
		status.Detail = "script path not configured"
		return status
	}

	info, err := os.Stat(path)
	if err != nil {
		status.Detail = fmt.Sprintf("script %q not found", path)
		return status
	}
	if info.IsDir() {
		status.Detail = fmt.Sprintf("script %q is a directory", path)
		return status
	}
	if info.Mode().Perm()&0o111 == 0 {
		status.Detail = fmt.Sprintf("script %q is not executable", path)
		return status
	}

	status.Available = true
	return status
}
