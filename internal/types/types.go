// Package types defines every cross‑package data structure used by the dirtree CLI.
package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

const (
	NodeTypeFile              = "file"
	NodeTypeDirectory         = "directory"
	NodeTypeUnfollowedSymlink = "symlink"
	NodeTypeError             = "error"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"

	// ConnectorBranch precedes every entry except the last one of a directory.
	ConnectorBranch = "├── "
	// ConnectorLast precedes the last entry of a directory.
	ConnectorLast = "└── "
	// PaddingBranch continues the prefix below a non-last entry.
	PaddingBranch = "│   "
	// PaddingLast continues the prefix below a last entry.
	PaddingLast = "    "

	// SymlinkArrow separates a symlink name from its target.
	SymlinkArrow = " -> "
	// BrokenSymlinkLabel replaces the target of a symlink that cannot be resolved.
	BrokenSymlinkLabel = "[Broken Symlink]"

	symlinkTargetKey = "symlink_target"
	lineSeparator    = "\n"
)

// Node is one position of the structural tree. The concrete type is one of
// FileNode, DirectoryNode, UnfollowedSymlinkNode or ErrorNode.
type Node interface {
	// NodeType reports one of the NodeType* constants.
	NodeType() string
	isNode()
}

// FileNode is a leaf: a regular file, a symlink to a file or a broken symlink.
type FileNode struct {
	// SymlinkTarget is the target shown after the arrow; empty for plain files.
	SymlinkTarget string
	Broken        bool
	SizeBytes     int64
	HasSize       bool
}

// Entry names one child of a directory.
type Entry struct {
	Name string
	Node Node
}

// DirectoryNode holds its children in ascending byte-wise name order.
type DirectoryNode struct {
	Entries []Entry
}

// UnfollowedSymlinkNode marks a symlink to a directory that was not expanded.
type UnfollowedSymlinkNode struct {
	Target string
}

// ErrorKind classifies a directory whose listing failed.
type ErrorKind int

const (
	// ErrorKindAccessDenied is reported when a directory cannot be read.
	ErrorKindAccessDenied ErrorKind = iota
	// ErrorKindMissingOrBrokenTarget is reported when a directory vanished or its link dangles.
	ErrorKindMissingOrBrokenTarget
)

// Label returns the marker text rendered in place of the directory contents.
func (kind ErrorKind) Label() string {
	if kind == ErrorKindAccessDenied {
		return "[Permission Denied]"
	}
	return "[Not Found or Broken Symlink]"
}

// ErrorNode replaces the contents of a directory whose listing failed.
type ErrorNode struct {
	Kind ErrorKind
}

func (FileNode) NodeType() string              { return NodeTypeFile }
func (DirectoryNode) NodeType() string         { return NodeTypeDirectory }
func (UnfollowedSymlinkNode) NodeType() string { return NodeTypeUnfollowedSymlink }
func (ErrorNode) NodeType() string             { return NodeTypeError }

func (FileNode) isNode()              {}
func (DirectoryNode) isNode()         {}
func (UnfollowedSymlinkNode) isNode() {}
func (ErrorNode) isNode()             {}

// Lookup returns the child node with the given name.
func (directory DirectoryNode) Lookup(name string) (Node, bool) {
	for _, entry := range directory.Entries {
		if entry.Name == name {
			return entry.Node, true
		}
	}
	return nil, false
}

// Names returns child names in stored order.
func (directory DirectoryNode) Names() []string {
	names := make([]string, 0, len(directory.Entries))
	for _, entry := range directory.Entries {
		names = append(names, entry.Name)
	}
	return names
}

// MarshalJSON encodes a file as null.
func (FileNode) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON encodes the directory as an object whose keys keep the stored order.
func (directory DirectoryNode) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, entry := range directory.Entries {
		if index > 0 {
			buffer.WriteByte(',')
		}
		encodedName, nameError := marshalUnescaped(entry.Name)
		if nameError != nil {
			return nil, nameError
		}
		buffer.Write(encodedName)
		buffer.WriteByte(':')
		var entryValue any
		if entry.Node != nil {
			entryValue = entry.Node
		}
		encodedNode, nodeError := marshalUnescaped(entryValue)
		if nodeError != nil {
			return nil, nodeError
		}
		buffer.Write(encodedNode)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// MarshalJSON encodes the marker as an object carrying the target.
func (symlink UnfollowedSymlinkNode) MarshalJSON() ([]byte, error) {
	encodedTarget, targetError := marshalUnescaped(symlink.Target)
	if targetError != nil {
		return nil, targetError
	}
	return []byte(`{"` + symlinkTargetKey + `":` + string(encodedTarget) + `}`), nil
}

// MarshalJSON encodes the marker as a single-leaf directory named by its label.
func (errorNode ErrorNode) MarshalJSON() ([]byte, error) {
	encodedLabel, labelError := marshalUnescaped(errorNode.Kind.Label())
	if labelError != nil {
		return nil, labelError
	}
	return []byte("{" + string(encodedLabel) + ":null}"), nil
}

// marshalUnescaped encodes value without escaping HTML characters, even when nested.
func marshalUnescaped(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return nil, encodeError
	}
	return bytes.TrimRight(buffer.Bytes(), lineSeparator), nil
}

// RenderLine is one line of the ASCII tree below the root line.
type RenderLine struct {
	Prefix    string
	Connector string
	Display   string
}

// String joins the prefix, connector and display name.
func (line RenderLine) String() string {
	return line.Prefix + line.Connector + line.Display
}

// TreeResult is the immutable outcome of one traversal.
type TreeResult struct {
	// RootPath is the absolute root path.
	RootPath string
	// RootName is the base name of RootPath.
	RootName string
	// RootDisplay is the first printed line: RootName plus a symlink arrow when the root is a link.
	RootDisplay string
	Tree        Node
	Lines       []RenderLine
}

// TreePrint renders the root line followed by every render line.
func (result *TreeResult) TreePrint() string {
	renderedLines := make([]string, 0, len(result.Lines))
	for _, line := range result.Lines {
		renderedLines = append(renderedLines, line.String())
	}
	body := strings.TrimRightFunc(strings.Join(renderedLines, lineSeparator), unicode.IsSpace)
	return result.RootDisplay + lineSeparator + body
}

// TreeDocument is the serialized record produced for one root.
type TreeDocument struct {
	Root          string   `json:"root"`
	Tree          Node     `json:"tree"`
	TreePrint     string   `json:"tree_print"`
	ExcludedDirs  []string `json:"excluded_dirs"`
	ExcludedFiles []string `json:"excluded_files"`
}
