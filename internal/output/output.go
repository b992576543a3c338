// Package output renders materialized trees as raw text, JSON or XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/treeview/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	collapsedMarker    = " [+]"
	depthLimitedMarker = " [depth limit]"
	directorySuffix    = "/"

	unsupportedFormatErrorFormat = "unsupported format %q"
)

// Summary counts the nodes visible in a rendered tree.
type Summary struct {
	Files       int
	Directories int
}

// Summarize walks root and counts every visible file and directory below it.
func Summarize(root *types.TreeNode) Summary {
	var summary Summary
	if root == nil {
		return summary
	}
	pending := append([]*types.TreeNode(nil), root.Children...)
	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if node.IsDirectory() {
			summary.Directories++
			pending = append(pending, node.Children...)
			continue
		}
		summary.Files++
	}
	return summary
}

// FormatSummaryLine formats a Summary into the raw summary line.
func FormatSummaryLine(summary Summary) string {
	fileLabel := "files"
	if summary.Files == 1 {
		fileLabel = "file"
	}
	directoryLabel := "directories"
	if summary.Directories == 1 {
		directoryLabel = "directory"
	}
	return fmt.Sprintf("Summary: %d %s, %d %s", summary.Files, fileLabel, summary.Directories, directoryLabel)
}

// Render encodes root in the named format.
func Render(format string, root *types.TreeNode, includeSummary bool) (string, error) {
	switch format {
	case types.FormatRaw, "":
		var buffer bytes.Buffer
		WriteTreeRaw(&buffer, root, includeSummary)
		return buffer.String(), nil
	case types.FormatJSON:
		return RenderJSON(root)
	case types.FormatXML:
		return RenderXML(root)
	default:
		return "", fmt.Errorf(unsupportedFormatErrorFormat, format)
	}
}

// RenderJSON marshals the tree as indented JSON.
func RenderJSON(root *types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(root, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderXML marshals the tree as an XML document.
func RenderXML(root *types.TreeNode) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(root, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// WriteTreeRaw renders a directory tree with box-drawing connectors to the provided writer.
func WriteTreeRaw(writer io.Writer, root *types.TreeNode, includeSummary bool) {
	if root == nil {
		return
	}
	renderTreeNode(writer, root, "", true, true)
	if includeSummary {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, FormatSummaryLine(Summarize(root)))
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func nodeLabel(node *types.TreeNode) string {
	label := node.Name
	if node.Icon != "" {
		label = node.Icon + " " + label
	}
	if !node.IsDirectory() {
		return label
	}
	label += directorySuffix
	switch {
	case node.DepthLimited:
		label += depthLimitedMarker
	case !node.IsExpanded:
		label += collapsedMarker
	}
	return label
}

func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	fmt.Fprintf(writer, "%s%s\n", linePrefix, nodeLabel(node))
	for index, child := range node.Children {
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}
