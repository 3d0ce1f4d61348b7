// Package pathutil provides cross-platform path utilities for autosort.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// SplitExt splits a file name into stem and extension. A leading dot does
// not start an extension.
//
// Examples:
//
//	report.pdf     → "report", ".pdf"
//	backup.tar.gz  → "backup.tar", ".gz"
//	.bashrc        → ".bashrc", ""
//	README         → "README", ""
func SplitExt(name string) (stem, ext string) {
	base := filepath.Base(name)
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return name, ""
	}
	cut := len(name) - (len(trimmed) - i)
	return name[:cut], name[cut:]
}

// IsExistingDir reports whether path exists and is a directory.
func IsExistingDir(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SameDir reports whether a and b refer to the same directory. Paths are
// compared after cleaning and, when both exist, by file identity.
func SameDir(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
