package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brianly1003/autosort/internal/domain"
)

// fallbackCategory is used for files without an extension when no rule matches.
const fallbackCategory = "other"

// Destination is where a classified file should go.
type Destination struct {
	Folder   string
	Category string
	// Matched is false when the destination was derived from the default
	// folder because no rule listed the extension.
	Matched bool
}

// Classify picks the destination for a file with the given extension.
//
// The first rule whose extension set contains ext wins. A matching rule with
// an empty target folder resolves to DefaultTargetFolder/Category. With no
// matching rule the file goes to DefaultTargetFolder/<ext without dot>, or
// DefaultTargetFolder/other when ext is empty. Without a default folder
// either case fails with domain.ErrClassificationUnresolved.
func Classify(ext string, rs *RuleSet) (Destination, error) {
	ext = NormalizeExtension(ext)
	def := rs.DefaultTargetFolder()

	if rs != nil && ext != "" {
		if i := rs.match(ext); i >= 0 {
			rule := rs.rules[i]
			switch {
			case rule.TargetFolder != "":
				return Destination{Folder: rule.TargetFolder, Category: rule.Category, Matched: true}, nil
			case def == "":
				return Destination{}, fmt.Errorf("rule %d (%s) for %s has no target folder: %w",
					i, rule.Category, ext, domain.ErrClassificationUnresolved)
			case rule.Category != "":
				return Destination{Folder: filepath.Join(def, rule.Category), Category: rule.Category, Matched: true}, nil
			}
			// A rule without target or category falls through to the
			// extension-named folder below.
		}
	}

	if def == "" {
		if ext == "" {
			return Destination{}, fmt.Errorf("file without extension: %w", domain.ErrClassificationUnresolved)
		}
		return Destination{}, fmt.Errorf("no rule for %s: %w", ext, domain.ErrClassificationUnresolved)
	}

	category := strings.TrimPrefix(ext, ".")
	if category == "" {
		category = fallbackCategory
	}
	return Destination{Folder: filepath.Join(def, category), Category: category}, nil
}

// ClassifyPath classifies path by its extension.
func ClassifyPath(path string, rs *RuleSet) (Destination, error) {
	return Classify(ExtensionOf(path), rs)
}
