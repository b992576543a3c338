package commands

import (
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how many directory levels below the root may be expanded.
const DefaultMaxDepth = 64

// TreeBuilder materializes filtered, sorted directory forests using configured options.
// A TreeBuilder holds no mutable state and may be shared between goroutines.
type TreeBuilder struct {
	// IgnoreFileNames lists the per-directory ignore files; empty means .gitignore.
	IgnoreFileNames []string
	// MaxDepth limits expansion depth. Zero selects DefaultMaxDepth, negative disables the limit.
	MaxDepth int
	// SortDirectories orders directories by case-insensitive name instead of enumeration order.
	SortDirectories bool
	// ExpandAll treats every visible directory as expanded.
	ExpandAll bool
	Logger    *zap.Logger
}

// ExpansionSet answers whether a directory path is currently expanded.
type ExpansionSet interface {
	Contains(path string) bool
}

// PathSet is a map-backed ExpansionSet.
type PathSet map[string]struct{}

// NewPathSet returns a PathSet holding the cleaned form of every path.
func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		set[filepath.Clean(path)] = struct{}{}
	}
	return set
}

// Contains reports whether path is in the set.
func (set PathSet) Contains(path string) bool {
	_, found := set[path]
	return found
}

func (treeBuilder *TreeBuilder) logger() *zap.Logger {
	if treeBuilder.Logger == nil {
		return zap.NewNop()
	}
	return treeBuilder.Logger
}

func (treeBuilder *TreeBuilder) maxDepth() int {
	if treeBuilder.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return treeBuilder.MaxDepth
}
