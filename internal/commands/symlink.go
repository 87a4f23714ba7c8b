package commands

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/types"
)

// symlinkInspection describes how a symlink entry is displayed.
type symlinkInspection struct {
	isSymlink bool
	broken    bool
	// target is the text shown after the arrow.
	target string
}

// displaySuffix returns the arrow suffix, or nothing for plain entries.
func (inspection symlinkInspection) displaySuffix() string {
	if !inspection.isSymlink {
		return ""
	}
	return types.SymlinkArrow + inspection.target
}

// inspectSymlink reads the link at linkPath and computes its display target:
// the path of the fully resolved target relative to the resolved containing
// directory, or the raw link text when no relative form exists. A link that
// cannot be read or resolved is broken.
func (treeBuilder *TreeBuilder) inspectSymlink(linkPath string, containingDirectory string) symlinkInspection {
	rawTarget, readLinkError := os.Readlink(linkPath)
	if readLinkError != nil {
		treeBuilder.logger.Debug("symlink unreadable", zap.String("path", linkPath), zap.Error(errors.Mark(readLinkError, ErrBrokenSymlink)))
		return brokenSymlink()
	}
	resolvedTarget, resolveError := filepath.EvalSymlinks(linkPath)
	if resolveError != nil {
		treeBuilder.logger.Debug("symlink unresolvable", zap.String("path", linkPath), zap.Error(errors.Mark(resolveError, ErrBrokenSymlink)))
		return brokenSymlink()
	}
	baseDirectory := containingDirectory
	if resolvedDirectory, directoryError := filepath.EvalSymlinks(containingDirectory); directoryError == nil {
		baseDirectory = resolvedDirectory
	}
	relativeTarget, relativeError := filepath.Rel(baseDirectory, resolvedTarget)
	if relativeError != nil {
		return symlinkInspection{isSymlink: true, target: rawTarget}
	}
	return symlinkInspection{isSymlink: true, target: relativeTarget}
}

func brokenSymlink() symlinkInspection {
	return symlinkInspection{isSymlink: true, broken: true, target: types.BrokenSymlinkLabel}
}

// isSymlink reports whether path itself is a symbolic link.
func isSymlink(path string) bool {
	fileInformation, lstatError := os.Lstat(path)
	return lstatError == nil && fileInformation.Mode()&os.ModeSymlink != 0
}

// fileSize returns the size of the regular file at path, following links.
func (treeBuilder *TreeBuilder) fileSize(path string) (int64, bool) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		treeBuilder.logger.Debug("size unavailable", zap.String("path", path), zap.Error(errors.Mark(statError, ErrSizeUnavailable)))
		return 0, false
	}
	if !fileInformation.Mode().IsRegular() {
		return 0, false
	}
	return fileInformation.Size(), true
}
