// Package filex contains filesystem helpers shared by the artifact store:
// safe file name derivation and directory creation.
package filex

import (
	"fmt"
	"os"
	"strings"
)

// DefaultName is used when sanitizing a file name leaves nothing.
const DefaultName = "file"

// SafeName reduces an untrusted file name to its final path segment.
// Backslashes are normalized to forward slashes first, so both Unix and
// Windows style traversal is stripped. An empty result falls back to
// DefaultName.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return DefaultName
	}
	return name
}

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
