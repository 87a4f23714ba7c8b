package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/utils"
)

// TreeOptions configures a TreeBuilder.
type TreeOptions struct {
	// ExcludeDirectoryNames hides directories whose name equals or glob-matches an entry.
	ExcludeDirectoryNames []string
	// ExcludeFilePatterns hides any entry whose name matches one of the globs.
	ExcludeFilePatterns []string
	// FollowSymlinks expands symlinks that point at directories.
	FollowSymlinks bool
	// ShowFileSizes appends a human-readable size to file entries.
	ShowFileSizes bool
	// Logger receives contained traversal failures at debug level. Nil disables logging.
	Logger *zap.Logger
}

// TreeBuilder builds directory trees using immutable options. It holds no
// per-traversal state, so one builder may be reused for several Build calls.
type TreeBuilder struct {
	matcher        *utils.ExclusionMatcher
	followSymlinks bool
	showFileSizes  bool
	logger         *zap.Logger
}

// NewTreeBuilder constructs a TreeBuilder from options.
func NewTreeBuilder(options TreeOptions) *TreeBuilder {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{
		matcher:        utils.NewExclusionMatcher(options.ExcludeDirectoryNames, options.ExcludeFilePatterns),
		followSymlinks: options.FollowSymlinks,
		showFileSizes:  options.ShowFileSizes,
		logger:         logger,
	}
}
