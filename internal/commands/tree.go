// Package commands contains the core logic for materializing directory trees.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/temirov/treeview/internal/config"
	"github.com/temirov/treeview/internal/icons"
	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

const (
	warningDepthLimitMessage = "directory expansion stopped at depth limit"
	debugCycleMessage        = "directory links back to an ancestor, leaving it collapsed"
	logFieldPath             = "path"
	logFieldDepth            = "depth"
)

// buildFrame is one pending directory listing. Its nodes are stored in target.
// ancestors holds the resolved directories from the root down to directoryPath.
type buildFrame struct {
	directoryPath string
	depth         int
	target        *[]*types.TreeNode
	ancestors     []os.FileInfo
}

// Build returns the ordered forest for directoryPath: visible subdirectories
// first, then visible files in priority order. Every directory whose path is
// in expanded carries its own resolved children; all others are collapsed.
// Any directory that cannot be listed fails the whole call with *AccessError.
// Under ExpandAll a directory resolving to one of its own ancestors stays
// collapsed unless its path is in expanded.
func (treeBuilder *TreeBuilder) Build(directoryPath string, expanded ExpansionSet) ([]*types.TreeNode, error) {
	if expanded == nil {
		expanded = PathSet(nil)
	}
	maximumDepth := treeBuilder.maxDepth()

	forest := []*types.TreeNode{}
	rootFrame := buildFrame{directoryPath: filepath.Clean(directoryPath), target: &forest}
	if rootInfo, statError := os.Stat(rootFrame.directoryPath); statError == nil {
		rootFrame.ancestors = []os.FileInfo{rootInfo}
	}
	stack := []buildFrame{rootFrame}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodes, listError := treeBuilder.listDirectory(frame.directoryPath)
		if listError != nil {
			return nil, listError
		}
		*frame.target = nodes

		for _, node := range nodes {
			if !node.IsDirectory() {
				continue
			}
			isRequested := expanded.Contains(node.Path)
			node.IsExpanded = treeBuilder.ExpandAll || isRequested
			if !node.IsExpanded {
				continue
			}
			nodeInfo, statError := os.Stat(node.Path)
			if statError == nil && !isRequested && revisitsAncestor(nodeInfo, frame.ancestors) {
				node.IsExpanded = false
				treeBuilder.logger().Debug(debugCycleMessage, zap.String(logFieldPath, node.Path))
				continue
			}
			childDepth := frame.depth + 1
			if maximumDepth >= 0 && childDepth > maximumDepth {
				node.DepthLimited = true
				treeBuilder.logger().Warn(warningDepthLimitMessage, zap.String(logFieldPath, node.Path), zap.Int(logFieldDepth, childDepth))
				continue
			}
			childFrame := buildFrame{directoryPath: node.Path, depth: childDepth, target: &node.Children, ancestors: frame.ancestors}
			if statError == nil {
				childFrame.ancestors = append(slices.Clip(frame.ancestors), nodeInfo)
			}
			stack = append(stack, childFrame)
		}
	}
	return forest, nil
}

// revisitsAncestor reports whether directoryInfo is the same directory as one of ancestors.
func revisitsAncestor(directoryInfo os.FileInfo, ancestors []os.FileInfo) bool {
	for _, ancestorInfo := range ancestors {
		if os.SameFile(directoryInfo, ancestorInfo) {
			return true
		}
	}
	return false
}

// BuildRoot returns a single expanded directory node for rootPath whose children are Build(rootPath, expanded).
func (treeBuilder *TreeBuilder) BuildRoot(rootPath string, expanded ExpansionSet) (*types.TreeNode, error) {
	cleanRoot := filepath.Clean(rootPath)
	children, buildError := treeBuilder.Build(cleanRoot, expanded)
	if buildError != nil {
		return nil, buildError
	}
	return &types.TreeNode{
		Kind:       types.NodeKindDirectory,
		Name:       filepath.Base(cleanRoot),
		Path:       cleanRoot,
		Icon:       icons.Folder,
		IsExpanded: true,
		Children:   children,
	}, nil
}

// listDirectory returns the visible immediate contents of directoryPath,
// directories first in enumeration order, then files in priority order.
func (treeBuilder *TreeBuilder) listDirectory(directoryPath string) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, &AccessError{Path: directoryPath, Err: readDirectoryError}
	}
	rules, loadError := config.LoadIgnoreRules(directoryPath, treeBuilder.IgnoreFileNames...)
	if loadError != nil {
		return nil, &AccessError{Path: directoryPath, Err: loadError}
	}

	var directoryNodes []*types.TreeNode
	var fileNodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		kind, classified := classifyEntry(directoryPath, directoryEntry)
		if !classified || !utils.IsVisible(entryName, kind, rules) {
			continue
		}
		node := &types.TreeNode{
			Kind: kind,
			Name: entryName,
			Path: filepath.Join(directoryPath, entryName),
			Icon: icons.For(kind, entryName),
		}
		if kind == types.NodeKindDirectory {
			directoryNodes = append(directoryNodes, node)
		} else {
			fileNodes = append(fileNodes, node)
		}
	}

	if treeBuilder.SortDirectories {
		SortDirectoryNodes(directoryNodes)
	}
	SortFileNodes(fileNodes)

	nodes := make([]*types.TreeNode, 0, len(directoryNodes)+len(fileNodes))
	nodes = append(nodes, directoryNodes...)
	return append(nodes, fileNodes...), nil
}

// classifyEntry reports whether an entry is a file or a directory as seen by the OS.
// Symbolic links are followed; broken links and special files are not classified.
func classifyEntry(directoryPath string, directoryEntry fs.DirEntry) (types.NodeKind, bool) {
	entryType := directoryEntry.Type()
	if entryType&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(filepath.Join(directoryPath, directoryEntry.Name()))
		if statError != nil {
			return "", false
		}
		entryType = targetInfo.Mode().Type()
	}
	switch {
	case entryType.IsDir():
		return types.NodeKindDirectory, true
	case entryType.IsRegular():
		return types.NodeKindFile, true
	default:
		return "", false
	}
}
