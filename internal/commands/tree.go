// Package commands contains the core logic for building directory trees.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s"

	// listingContainedMessage is logged when a directory cannot be listed.
	listingContainedMessage = "skipping directory contents"
)

// treeTraversal carries the state of a single Build call.
type treeTraversal struct {
	builder *TreeBuilder
	lines   []types.RenderLine
}

// Build walks rootDirectoryPath depth-first and returns the structural tree
// together with its ordered render lines. Failures below the root are
// contained as markers; the only error returned is a failure to make the
// root path absolute.
func (treeBuilder *TreeBuilder) Build(rootDirectoryPath string) (*types.TreeResult, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, errors.Wrapf(absolutePathError, errorAbsolutePathFormat, rootDirectoryPath)
	}

	rootName := filepath.Base(absoluteRootDirPath)
	rootDisplay := rootName
	if isSymlink(absoluteRootDirPath) {
		rootLink := treeBuilder.inspectSymlink(absoluteRootDirPath, filepath.Dir(absoluteRootDirPath))
		rootDisplay += rootLink.displaySuffix()
	}

	traversal := &treeTraversal{builder: treeBuilder}
	rootNode := traversal.buildDirectoryNode(absoluteRootDirPath, "")

	return &types.TreeResult{
		RootPath:    absoluteRootDirPath,
		RootName:    rootName,
		RootDisplay: rootDisplay,
		Tree:        rootNode,
		Lines:       traversal.lines,
	}, nil
}

// buildDirectoryNode lists one directory and recursively builds its children.
func (traversal *treeTraversal) buildDirectoryNode(currentDirectoryPath string, prefix string) types.Node {
	treeBuilder := traversal.builder

	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		errorKind, markedError := classifyListingError(currentDirectoryPath, readDirectoryError)
		treeBuilder.logger.Debug(listingContainedMessage, zap.String("path", currentDirectoryPath), zap.Error(markedError))
		traversal.appendLine(prefix, types.ConnectorLast, errorKind.Label())
		return types.ErrorNode{Kind: errorKind}
	}

	visibleEntries := make([]fs.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		if treeBuilder.matcher.ShouldExclude(directoryEntry.Name(), childPath) {
			continue
		}
		visibleEntries = append(visibleEntries, directoryEntry)
	}
	sort.SliceStable(visibleEntries, func(left, right int) bool {
		return visibleEntries[left].Name() < visibleEntries[right].Name()
	})

	directoryNode := types.DirectoryNode{Entries: make([]types.Entry, 0, len(visibleEntries))}
	for entryIndex, directoryEntry := range visibleEntries {
		isLast := entryIndex == len(visibleEntries)-1
		connector := types.ConnectorBranch
		childPrefix := prefix + types.PaddingBranch
		if isLast {
			connector = types.ConnectorLast
			childPrefix = prefix + types.PaddingLast
		}

		entryName := directoryEntry.Name()
		childPath := filepath.Join(currentDirectoryPath, entryName)

		var link symlinkInspection
		isTargetDirectory := directoryEntry.IsDir()
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			link = treeBuilder.inspectSymlink(childPath, currentDirectoryPath)
			isTargetDirectory = !link.broken && isDirectoryPath(childPath)
		}

		if isTargetDirectory {
			if link.isSymlink && !treeBuilder.followSymlinks {
				traversal.appendLine(prefix, connector, entryName+link.displaySuffix())
				directoryNode.Entries = append(directoryNode.Entries, types.Entry{
					Name: entryName,
					Node: types.UnfollowedSymlinkNode{Target: link.target},
				})
				continue
			}
			traversal.appendLine(prefix, connector, entryName)
			childNode := traversal.buildDirectoryNode(childPath, childPrefix)
			directoryNode.Entries = append(directoryNode.Entries, types.Entry{Name: entryName, Node: childNode})
			continue
		}

		displayName := entryName + link.displaySuffix()
		fileNode := types.FileNode{Broken: link.broken}
		if link.isSymlink {
			fileNode.SymlinkTarget = link.target
		}
		if treeBuilder.showFileSizes && !link.broken {
			if sizeBytes, sizeAvailable := treeBuilder.fileSize(childPath); sizeAvailable {
				displayName += utils.FormatSizeSuffix(sizeBytes)
				fileNode.SizeBytes = sizeBytes
				fileNode.HasSize = true
			}
		}
		traversal.appendLine(prefix, connector, displayName)
		directoryNode.Entries = append(directoryNode.Entries, types.Entry{Name: entryName, Node: fileNode})
	}

	return directoryNode
}

func (traversal *treeTraversal) appendLine(prefix string, connector string, display string) {
	traversal.lines = append(traversal.lines, types.RenderLine{Prefix: prefix, Connector: connector, Display: display})
}

// isDirectoryPath reports whether path is a directory after following links.
func isDirectoryPath(path string) bool {
	fileInformation, statError := os.Stat(path)
	return statError == nil && fileInformation.IsDir()
}
