// Package output renders tree documents as raw text, JSON or XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	indentPrefix     = ""
	jsonIndentSpacer = "    "
	xmlIndentSpacer  = "  "

	xmlHeader = xml.Header

	errorUnsupportedFormat = "unsupported output format %q"
)

// NewTreeDocument assembles the serialized record for a traversal result.
// Exclusion lists are copied and sorted so repeated renders are identical.
func NewTreeDocument(result *types.TreeResult, excludedDirectories []string, excludedFiles []string) types.TreeDocument {
	return types.TreeDocument{
		Root:          result.RootName,
		Tree:          result.Tree,
		TreePrint:     result.TreePrint(),
		ExcludedDirs:  sortedCopy(excludedDirectories),
		ExcludedFiles: sortedCopy(excludedFiles),
	}
}

func sortedCopy(values []string) []string {
	copied := append([]string{}, utils.DeduplicatePatterns(values)...)
	sort.Strings(copied)
	return copied
}

// Render dispatches to the renderer for format.
func Render(format string, document types.TreeDocument) (string, error) {
	switch format {
	case types.FormatRaw:
		return RenderRaw(document), nil
	case types.FormatJSON:
		return RenderJSON(document)
	case types.FormatXML:
		return RenderXML(document)
	default:
		return "", errors.Newf(errorUnsupportedFormat, format)
	}
}

// RenderRaw returns the ASCII tree.
func RenderRaw(document types.TreeDocument) string {
	return document.TreePrint
}

// RenderJSON marshals the document with four-space indentation, leaving
// non-ASCII and HTML characters unescaped.
func RenderJSON(document types.TreeDocument) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(indentPrefix, jsonIndentSpacer)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return "", errors.Wrap(encodeError, "encoding tree document")
	}
	return string(bytes.TrimRight(buffer.Bytes(), "\n")), nil
}

type xmlNode struct {
	XMLName  xml.Name  `xml:"node"`
	Name     string    `xml:"name,attr"`
	Type     string    `xml:"type,attr"`
	Target   string    `xml:"target,attr,omitempty"`
	Size     string    `xml:"size,attr,omitempty"`
	Label    string    `xml:"label,attr,omitempty"`
	Children []xmlNode `xml:"node"`
}

type xmlTreeDocument struct {
	XMLName       xml.Name `xml:"tree"`
	Root          string   `xml:"root,attr"`
	Node          xmlNode  `xml:"node"`
	TreePrint     string   `xml:"tree_print"`
	ExcludedDirs  []string `xml:"excluded_dirs>name"`
	ExcludedFiles []string `xml:"excluded_files>pattern"`
}

// RenderXML marshals the document as an XML tree of nested node elements.
func RenderXML(document types.TreeDocument) (string, error) {
	wrapper := xmlTreeDocument{
		Root:          document.Root,
		Node:          toXMLNode(document.Root, document.Tree),
		TreePrint:     document.TreePrint,
		ExcludedDirs:  document.ExcludedDirs,
		ExcludedFiles: document.ExcludedFiles,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, xmlIndentSpacer)
	if xmlMarshalError != nil {
		return "", errors.Wrap(xmlMarshalError, "encoding tree document")
	}
	return xmlHeader + string(encoded), nil
}

func toXMLNode(name string, node types.Node) xmlNode {
	converted := xmlNode{Name: name}
	switch typedNode := node.(type) {
	case types.DirectoryNode:
		converted.Type = types.NodeTypeDirectory
		for _, entry := range typedNode.Entries {
			converted.Children = append(converted.Children, toXMLNode(entry.Name, entry.Node))
		}
	case types.UnfollowedSymlinkNode:
		converted.Type = types.NodeTypeUnfollowedSymlink
		converted.Target = typedNode.Target
	case types.ErrorNode:
		converted.Type = types.NodeTypeError
		converted.Label = typedNode.Kind.Label()
	case types.FileNode:
		converted.Type = types.NodeTypeFile
		converted.Target = typedNode.SymlinkTarget
		if typedNode.HasSize {
			converted.Size = utils.FormatFileSize(typedNode.SizeBytes)
		}
	default:
		converted.Type = types.NodeTypeFile
	}
	return converted
}
