package commands

import (
	"cmp"
	"slices"
	"strings"

	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

// otherFilesGroup is the priority group of every extension without an explicit entry.
const otherFilesGroup = 3

// priorityGroups places source and data files above everything else.
// Extensions are matched case-sensitively.
var priorityGroups = map[string]int{
	".py":  0,
	".m":   1,
	".csv": 2,
}

// PriorityGroup returns the sort group of a file name.
func PriorityGroup(name string) int {
	if group, found := priorityGroups[utils.FileExtension(name)]; found {
		return group
	}
	return otherFilesGroup
}

// SortFileNodes orders file nodes by priority group, then by case-insensitive name.
// Nodes that compare equal keep their relative order.
func SortFileNodes(nodes []*types.TreeNode) {
	slices.SortStableFunc(nodes, func(left, right *types.TreeNode) int {
		if groupOrder := cmp.Compare(PriorityGroup(left.Name), PriorityGroup(right.Name)); groupOrder != 0 {
			return groupOrder
		}
		return strings.Compare(strings.ToLower(left.Name), strings.ToLower(right.Name))
	})
}

// SortDirectoryNodes orders directory nodes by case-insensitive name.
func SortDirectoryNodes(nodes []*types.TreeNode) {
	slices.SortStableFunc(nodes, func(left, right *types.TreeNode) int {
		return strings.Compare(strings.ToLower(left.Name), strings.ToLower(right.Name))
	})
}
