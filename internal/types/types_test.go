package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/dirtree/internal/types"
)

func TestNodeJSONEncoding(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		node     types.Node
		expected string
	}{
		{name: "file", node: types.FileNode{SizeBytes: 12, HasSize: true}, expected: `null`},
		{name: "broken file symlink", node: types.FileNode{SymlinkTarget: types.BrokenSymlinkLabel, Broken: true}, expected: `null`},
		{name: "empty directory", node: types.DirectoryNode{}, expected: `{}`},
		{
			name: "ordered directory",
			node: types.DirectoryNode{Entries: []types.Entry{
				{Name: "b", Node: types.FileNode{}},
				{Name: "a", Node: types.DirectoryNode{}},
			}},
			expected: `{"b":null,"a":{}}`,
		},
		{name: "unfollowed symlink", node: types.UnfollowedSymlinkNode{Target: "../real"}, expected: `{"symlink_target":"../real"}`},
		{name: "access denied", node: types.ErrorNode{Kind: types.ErrorKindAccessDenied}, expected: `{"[Permission Denied]":null}`},
		{name: "missing", node: types.ErrorNode{Kind: types.ErrorKindMissingOrBrokenTarget}, expected: `{"[Not Found or Broken Symlink]":null}`},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subTest *testing.T) {
			encoded, encodeError := json.Marshal(testCase.node)
			require.NoError(subTest, encodeError)
			require.JSONEq(subTest, testCase.expected, string(encoded))
			if testCase.name == "ordered directory" {
				require.Equal(subTest, testCase.expected, string(encoded))
			}
		})
	}
}

func TestDirectoryLookup(testingInstance *testing.T) {
	directory := types.DirectoryNode{Entries: []types.Entry{
		{Name: "a.txt", Node: types.FileNode{}},
		{Name: "sub", Node: types.DirectoryNode{}},
	}}
	node, found := directory.Lookup("sub")
	require.True(testingInstance, found)
	require.Equal(testingInstance, types.NodeTypeDirectory, node.NodeType())
	_, found = directory.Lookup("missing")
	require.False(testingInstance, found)
	require.Equal(testingInstance, []string{"a.txt", "sub"}, directory.Names())
}

func TestTreePrint(testingInstance *testing.T) {
	result := &types.TreeResult{
		RootDisplay: "root",
		Lines: []types.RenderLine{
			{Connector: types.ConnectorBranch, Display: "a"},
			{Prefix: types.PaddingBranch, Connector: types.ConnectorLast, Display: "b.txt"},
			{Connector: types.ConnectorLast, Display: "c  "},
		},
	}
	require.Equal(testingInstance, "root\n├── a\n│   └── b.txt\n└── c", result.TreePrint())

	empty := &types.TreeResult{RootDisplay: "root"}
	require.Equal(testingInstance, "root\n", empty.TreePrint())
}

func TestErrorKindLabel(testingInstance *testing.T) {
	require.Equal(testingInstance, "[Permission Denied]", types.ErrorKindAccessDenied.Label())
	require.Equal(testingInstance, "[Not Found or Broken Symlink]", types.ErrorKindMissingOrBrokenTarget.Label())
}
