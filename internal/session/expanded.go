// Package session tracks which directories each browser session has expanded.
package session

import (
	"path/filepath"
	"sort"
	"sync"
)

// ExpandedSet is a mutable, goroutine-safe set of expanded directory paths.
// Paths are stored in cleaned form.
type ExpandedSet struct {
	mutex sync.RWMutex
	paths map[string]struct{}
}

// NewExpandedSet returns an empty set.
func NewExpandedSet() *ExpandedSet {
	return &ExpandedSet{paths: make(map[string]struct{})}
}

// Add marks path as expanded.
func (set *ExpandedSet) Add(path string) {
	set.mutex.Lock()
	defer set.mutex.Unlock()
	set.paths[filepath.Clean(path)] = struct{}{}
}

// Remove marks path as collapsed.
func (set *ExpandedSet) Remove(path string) {
	set.mutex.Lock()
	defer set.mutex.Unlock()
	delete(set.paths, filepath.Clean(path))
}

// Contains reports whether path is expanded.
func (set *ExpandedSet) Contains(path string) bool {
	set.mutex.RLock()
	defer set.mutex.RUnlock()
	_, found := set.paths[filepath.Clean(path)]
	return found
}

// Toggle expands a collapsed path or collapses an expanded one and reports the new state.
func (set *ExpandedSet) Toggle(path string) bool {
	cleanPath := filepath.Clean(path)
	set.mutex.Lock()
	defer set.mutex.Unlock()
	if _, found := set.paths[cleanPath]; found {
		delete(set.paths, cleanPath)
		return false
	}
	set.paths[cleanPath] = struct{}{}
	return true
}

// Clear collapses every path.
func (set *ExpandedSet) Clear() {
	set.mutex.Lock()
	defer set.mutex.Unlock()
	set.paths = make(map[string]struct{})
}

// Len reports the number of expanded paths.
func (set *ExpandedSet) Len() int {
	set.mutex.RLock()
	defer set.mutex.RUnlock()
	return len(set.paths)
}

// Snapshot returns an immutable copy of the set for a single tree build.
func (set *ExpandedSet) Snapshot() Snapshot {
	set.mutex.RLock()
	defer set.mutex.RUnlock()
	copied := make(map[string]struct{}, len(set.paths))
	for path := range set.paths {
		copied[path] = struct{}{}
	}
	return Snapshot{paths: copied}
}

// Snapshot is a read-only view of an ExpandedSet at one point in time.
type Snapshot struct {
	paths map[string]struct{}
}

// Contains reports whether path was expanded when the snapshot was taken.
func (snapshot Snapshot) Contains(path string) bool {
	_, found := snapshot.paths[path]
	return found
}

// Paths returns the expanded paths in sorted order.
func (snapshot Snapshot) Paths() []string {
	paths := make([]string, 0, len(snapshot.paths))
	for path := range snapshot.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
