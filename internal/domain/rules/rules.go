// Package rules defines the extension rules used to classify files and the
// classifier that applies them.
package rules

import (
	"path/filepath"
	"strings"
)

// Rule maps a set of file extensions to a destination folder and category.
// An empty TargetFolder means "DefaultTargetFolder/Category".
type Rule struct {
	Extensions   []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
	TargetFolder string   `json:"target_folder" yaml:"target_folder" mapstructure:"target_folder"`
	Category     string   `json:"category" yaml:"category" mapstructure:"category"`
}

// RuleSet is an immutable, ordered collection of rules plus the default
// target folder. Rule order is authoritative: the first match wins.
type RuleSet struct {
	rules         []Rule
	index         []map[string]struct{}
	defaultTarget string
}

// NewRuleSet builds a RuleSet from rules, normalizing every extension.
// The input slice is copied; later changes to it are not observed.
func NewRuleSet(rules []Rule, defaultTargetFolder string) *RuleSet {
	rs := &RuleSet{
		rules:         make([]Rule, 0, len(rules)),
		index:         make([]map[string]struct{}, 0, len(rules)),
		defaultTarget: strings.TrimSpace(defaultTargetFolder),
	}

	for _, r := range rules {
		exts := NormalizeExtensions(r.Extensions)
		set := make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			set[ext] = struct{}{}
		}
		rs.rules = append(rs.rules, Rule{
			Extensions:   exts,
			TargetFolder: strings.TrimSpace(r.TargetFolder),
			Category:     strings.TrimSpace(r.Category),
		})
		rs.index = append(rs.index, set)
	}

	return rs
}

// Rules returns a copy of the rules in order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// DefaultTargetFolder returns the folder used when a rule has no target or
// no rule matches. May be empty.
func (rs *RuleSet) DefaultTargetFolder() string {
	if rs == nil {
		return ""
	}
	return rs.defaultTarget
}

// match returns the index of the first rule containing ext, or -1.
func (rs *RuleSet) match(ext string) int {
	for i, set := range rs.index {
		if _, ok := set[ext]; ok {
			return i
		}
	}
	return -1
}

func (r Rule) clone() Rule {
	exts := make([]string, len(r.Extensions))
	copy(exts, r.Extensions)
	r.Extensions = exts
	return r
}

// NormalizeExtension lower-cases ext and ensures a single leading dot.
// Blank input yields "".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions normalizes each extension, dropping blanks and
// duplicates while keeping first-seen order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		n := NormalizeExtension(e)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ExtensionOf returns the lower-cased extension of path including the dot,
// or "" when the base name has none.
func ExtensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
