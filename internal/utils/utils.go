// Package utils contains general helper functions used across treeview.
package utils

import (
	"strings"

	"github.com/temirov/treeview/internal/types"
)

// Ignore file constants used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// HiddenNamePrefix marks entries that are never displayed.
	HiddenNamePrefix = "."
	// ExtensionRulePrefix introduces a rule hiding every file with the following extension.
	ExtensionRulePrefix = "*"
)

const extensionSeparator = "."

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// FileExtension returns the suffix of name starting at its final dot.
// A name whose only dot leads it, or that ends in a dot, has no extension.
func FileExtension(name string) string {
	separatorIndex := strings.LastIndex(name, extensionSeparator)
	if separatorIndex <= 0 || separatorIndex == len(name)-1 {
		return ""
	}
	return name[separatorIndex:]
}

// IsVisible reports whether an entry named name may be shown given the ignore
// rules of the directory that contains it.
// Hidden names are never visible. Files are hidden by a rule of the form
// "*<ext>" matching their extension literally. Any entry is hidden by a rule
// equal to its name.
func IsVisible(name string, kind types.NodeKind, rules []string) bool {
	if strings.HasPrefix(name, HiddenNamePrefix) {
		return false
	}
	extensionRule := ExtensionRulePrefix + FileExtension(name)
	for _, rule := range rules {
		if kind == types.NodeKindFile && rule == extensionRule {
			return false
		}
		if rule == name {
			return false
		}
	}
	return true
}
