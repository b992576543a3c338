package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathOutsideRoot is returned when a requested path escapes its project root.
var ErrPathOutsideRoot = errors.New("path is outside of the project root")

// ProjectRegistry resolves project names to their root directories.
// It is built once at startup and never mutated afterwards.
type ProjectRegistry struct {
	projects []Project
	index    map[string]int
}

// NewProjectRegistry returns a registry preserving the order of the given projects.
// Later duplicates of a name are ignored.
func NewProjectRegistry(projects []Project) ProjectRegistry {
	registry := ProjectRegistry{index: make(map[string]int, len(projects))}
	for _, project := range projects {
		if _, exists := registry.index[project.Name]; exists {
			continue
		}
		registry.index[project.Name] = len(registry.projects)
		registry.projects = append(registry.projects, project)
	}
	return registry
}

// Lookup returns the project registered under name.
func (registry ProjectRegistry) Lookup(name string) (Project, bool) {
	position, found := registry.index[name]
	if !found {
		return Project{}, false
	}
	return registry.projects[position], true
}

// Projects returns a copy of the registered projects in configuration order.
func (registry ProjectRegistry) Projects() []Project {
	return append([]Project(nil), registry.projects...)
}

// Len reports the number of registered projects.
func (registry ProjectRegistry) Len() int {
	return len(registry.projects)
}

// ResolveWithin joins requestedPath onto root when it is relative, cleans it,
// and verifies that the result does not leave root.
func ResolveWithin(root string, requestedPath string) (string, error) {
	cleanRoot := filepath.Clean(root)
	candidate := requestedPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(cleanRoot, candidate)
	}
	candidate = filepath.Clean(candidate)
	if candidate == cleanRoot {
		return candidate, nil
	}
	relativePath, relativeError := filepath.Rel(cleanRoot, candidate)
	if relativeError != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return "", ErrPathOutsideRoot
	}
	return candidate, nil
}
