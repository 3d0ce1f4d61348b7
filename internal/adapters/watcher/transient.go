package watcher

import (
	"path/filepath"
	"strings"

	"github.com/brianly1003/autosort/internal/domain/rules"
)

// tmpMarker marks a file as partial wherever it appears in the base name,
// e.g. "report.tmp.pdf".
const tmpMarker = ".tmp"

// TransientFilter recognizes partially written files.
type TransientFilter struct {
	exts map[string]struct{}
}

// NewTransientFilter builds a filter for the given extensions.
func NewTransientFilter(exts []string) *TransientFilter {
	f := &TransientFilter{exts: make(map[string]struct{}, len(exts))}
	for _, ext := range rules.NormalizeExtensions(exts) {
		f.exts[ext] = struct{}{}
	}
	return f
}

// IsTransient reports whether path names a partial download or temp file.
func (f *TransientFilter) IsTransient(path string) bool {
	if _, ok := f.exts[rules.ExtensionOf(path)]; ok {
		return true
	}
	return strings.Contains(strings.ToLower(filepath.Base(path)), tmpMarker)
}
