// Package types defines every cross‑package data structure used by treeview.
package types

import "encoding/xml"

// NodeKind tags a TreeNode as a file or a directory.
type NodeKind string

const (
	NodeKindFile      NodeKind = "file"
	NodeKindDirectory NodeKind = "directory"

	CommandTree  = "tree"
	CommandServe = "serve"
	CommandInit  = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode is one file or directory entry of a rendered forest.
// Children is populated only for directories that were expanded at build time.
type TreeNode struct {
	XMLName      xml.Name    `json:"-" xml:"node"`
	Kind         NodeKind    `json:"kind" xml:"kind,attr"`
	Name         string      `json:"name" xml:"name"`
	Path         string      `json:"path" xml:"path"`
	Icon         string      `json:"icon" xml:"icon"`
	IsExpanded   bool        `json:"isExpanded" xml:"isExpanded,attr"`
	DepthLimited bool        `json:"depthLimited,omitempty" xml:"depthLimited,attr,omitempty"`
	Children     []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Kind == NodeKindDirectory
}

// Project binds a display name to the absolute root directory served under it.
type Project struct {
	Name string `json:"name" xml:"name"`
	Root string `json:"-" xml:"-"`
}
