// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/commands"
	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/output"
	"github.com/temirov/dirtree/internal/preferences"
	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	directoryFlagName      = "dir"
	excludeDirFlagName     = "exclude-dir"
	excludeFileFlagName    = "exclude-file"
	includeDirFlagName     = "include-dir"
	includeFileFlagName    = "include-file"
	followSymlinksFlagName = "follow-symlinks"
	sizesFlagName          = "sizes"
	loadPrefsFlagName      = "load-prefs"
	savePrefsFlagName      = "save-prefs"
	prefsFileFlagName      = "prefs-file"
	formatFlagName         = "format"
	copyFlagName           = "copy"
	configFlagName         = "config"
	versionFlagName        = "version"
	verboseFlagName        = "verbose"
	globalFlagName         = "global"
	forceFlagName          = "force"

	defaultPath     = "."
	versionTemplate = "dirtree version: %s\n"

	rootUse              = "dirtree [dir]"
	rootShortDescription = "render a directory tree"
	rootLongDescription  = `dirtree prints a directory as an ASCII tree.
Directories and files can be hidden by name or glob pattern, and the exclusion
sets can be persisted in a preferences file with --save-prefs and restored with --load-prefs.
Use --format to select raw, json, or xml output.`
	rootUsageExample = `  # Tree of the current directory
  dirtree

  # Hide build output and log files, show sizes
  dirtree ./project --exclude-dir build --exclude-file '*.log' --sizes

  # Persist the exclusions for later runs
  dirtree --exclude-dir vendor --save-prefs
  dirtree --load-prefs --format json`

	initUse              = "init"
	initShortDescription = "write the default configuration file"

	directoryFlagDescription      = "directory to render (default is the current directory)"
	excludeDirFlagDescription     = "directory name or glob to exclude (repeatable)"
	excludeFileFlagDescription    = "file name or glob to exclude (repeatable)"
	includeDirFlagDescription     = "directory name to remove from the exclusions (repeatable)"
	includeFileFlagDescription    = "file pattern to remove from the exclusions (repeatable)"
	followSymlinksFlagDescription = "expand symlinks that point at directories"
	sizesFlagDescription          = "show file sizes"
	loadPrefsFlagDescription      = "start from the saved preferences instead of the defaults"
	savePrefsFlagDescription      = "save the resulting exclusions as preferences"
	prefsFileFlagDescription      = "preferences file location"
	formatFlagDescription         = "output format: raw, json, or xml"
	copyFlagDescription           = "copy the output to the clipboard"
	configFlagDescription         = "configuration file to use instead of ./" + utils.ConfigFileName
	versionFlagDescription        = "display application version"
	verboseFlagDescription        = "log skipped directories, broken links and unreadable sizes"
	globalFlagDescription         = "write the configuration under the home directory"
	forceFlagDescription          = "overwrite an existing configuration file"

	invalidFormatMessage         = "invalid format value '%s'"
	conflictingDirectoryMessage  = "directory given both as argument %q and --dir %q"
	clipboardCopyErrorMessage    = "copy output to clipboard"
	clipboardServiceMissing      = "clipboard service is not configured"
	preferencesSaveFailedMessage = "preferences not saved"
	initWrittenTemplate          = "configuration written to %s\n"
)

// Dependencies are the collaborators used by the commands. Zero values select
// the process defaults.
type Dependencies struct {
	Logger           *zap.Logger
	// LogLevel, when set, is lowered to debug by --verbose.
	LogLevel         *zap.AtomicLevel
	Clipboard        clipboard.Copier
	FileSystem       afero.Fs
	WorkingDirectory string
	HomeDirectory    string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	return dependencies
}

// treeCommandOptions holds the flag values of the root command.
type treeCommandOptions struct {
	directory      string
	excludeDirs    []string
	excludeFiles   []string
	includeDirs    []string
	includeFiles   []string
	followSymlinks bool
	showSizes      bool
	loadPrefs      bool
	savePrefs      bool
	prefsFile      string
	format         string
	copyOutput     bool
	configPath     string
	showVersion    bool
	verbose        bool
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the dirtree application with the process arguments.
func Execute(logger *zap.Logger, logLevel *zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger, LogLevel: logLevel, Clipboard: clipboard.NewService()})
	return executeWithArguments(rootCommand, os.Args[1:])
}

func executeWithArguments(rootCommand *cobra.Command, arguments []string) error {
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	options := &treeCommandOptions{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose && dependencies.LogLevel != nil {
				dependencies.LogLevel.SetLevel(zap.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, writeErr := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return writeErr
			}
			if len(arguments) == 1 {
				if command.Flags().Changed(directoryFlagName) && options.directory != arguments[0] {
					return errors.Newf(conflictingDirectoryMessage, arguments[0], options.directory)
				}
				options.directory = arguments[0]
			}
			return runTree(command, dependencies, options)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&options.directory, directoryFlagName, defaultPath, directoryFlagDescription)
	flagSet.StringArrayVar(&options.excludeDirs, excludeDirFlagName, nil, excludeDirFlagDescription)
	flagSet.StringArrayVar(&options.excludeFiles, excludeFileFlagName, nil, excludeFileFlagDescription)
	flagSet.StringArrayVar(&options.includeDirs, includeDirFlagName, nil, includeDirFlagDescription)
	flagSet.StringArrayVar(&options.includeFiles, includeFileFlagName, nil, includeFileFlagDescription)
	registerBooleanFlag(flagSet, &options.followSymlinks, followSymlinksFlagName, false, followSymlinksFlagDescription)
	registerBooleanFlag(flagSet, &options.showSizes, sizesFlagName, false, sizesFlagDescription)
	registerBooleanFlag(flagSet, &options.loadPrefs, loadPrefsFlagName, false, loadPrefsFlagDescription)
	registerBooleanFlag(flagSet, &options.savePrefs, savePrefsFlagName, false, savePrefsFlagDescription)
	flagSet.StringVar(&options.prefsFile, prefsFileFlagName, utils.PreferencesFileName, prefsFileFlagDescription)
	flagSet.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(flagSet, &options.copyOutput, copyFlagName, false, copyFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	return rootCommand
}

// applyConfiguration fills every option the user did not set explicitly from
// the configuration files.
func applyConfiguration(command *cobra.Command, options *treeCommandOptions, treeConfiguration config.TreeConfiguration) {
	flagSet := command.Flags()
	if !flagSet.Changed(formatFlagName) && treeConfiguration.Format != "" {
		options.format = treeConfiguration.Format
	}
	if !flagSet.Changed(followSymlinksFlagName) && treeConfiguration.FollowSymlinks != nil {
		options.followSymlinks = *treeConfiguration.FollowSymlinks
	}
	if !flagSet.Changed(sizesFlagName) && treeConfiguration.Sizes != nil {
		options.showSizes = *treeConfiguration.Sizes
	}
	if !flagSet.Changed(copyFlagName) && treeConfiguration.Clipboard != nil {
		options.copyOutput = *treeConfiguration.Clipboard
	}
	if !flagSet.Changed(prefsFileFlagName) && treeConfiguration.PreferencesFile != "" {
		options.prefsFile = treeConfiguration.PreferencesFile
	}
}

func runTree(command *cobra.Command, dependencies Dependencies, options *treeCommandOptions) error {
	applicationConfiguration, configErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: options.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if configErr != nil {
		return configErr
	}
	treeConfiguration := applicationConfiguration.Tree
	applyConfiguration(command, options, treeConfiguration)

	format := strings.ToLower(options.format)
	if !isSupportedFormat(format) {
		return errors.Newf(invalidFormatMessage, format)
	}

	store := preferences.NewStore(dependencies.FileSystem, resolveAgainst(dependencies.WorkingDirectory, options.prefsFile), dependencies.Logger)
	record := preferences.DefaultRecord()
	if options.loadPrefs {
		record = store.Load()
	}
	record.Update(treeConfiguration.ExcludeDirs, treeConfiguration.ExcludeFiles)
	record.Update(options.excludeDirs, options.excludeFiles)
	record.IncludeBack(options.includeDirs, options.includeFiles)
	if options.savePrefs {
		if saveErr := store.Save(record); saveErr != nil {
			dependencies.Logger.Warn(preferencesSaveFailedMessage, zap.String("path", store.Path()), zap.Error(saveErr))
		}
	}

	excludedDirectories := record.Dirs()
	excludedFiles := record.Files()
	treeBuilder := commands.NewTreeBuilder(commands.TreeOptions{
		ExcludeDirectoryNames: excludedDirectories,
		ExcludeFilePatterns:   excludedFiles,
		FollowSymlinks:        options.followSymlinks,
		ShowFileSizes:         options.showSizes,
		Logger:                dependencies.Logger,
	})
	result, buildErr := treeBuilder.Build(resolveAgainst(dependencies.WorkingDirectory, options.directory))
	if buildErr != nil {
		return buildErr
	}

	rendered, renderErr := output.Render(format, output.NewTreeDocument(result, excludedDirectories, excludedFiles))
	if renderErr != nil {
		return renderErr
	}
	return writeOutput(command.OutOrStdout(), dependencies.Clipboard, rendered, options.copyOutput)
}

func writeOutput(writer io.Writer, copier clipboard.Copier, rendered string, copyOutput bool) error {
	if _, writeErr := fmt.Fprintln(writer, rendered); writeErr != nil {
		return writeErr
	}
	if !copyOutput {
		return nil
	}
	if copier == nil {
		return errors.New(clipboardServiceMissing)
	}
	if copyErr := copier.Copy(rendered); copyErr != nil {
		return errors.Wrap(copyErr, clipboardCopyErrorMessage)
	}
	return nil
}

// resolveAgainst anchors a relative path at workingDirectory when one is configured.
func resolveAgainst(workingDirectory string, path string) string {
	if workingDirectory == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initErr != nil {
				return initErr
			}
			_, writeErr := fmt.Fprintf(command.OutOrStdout(), initWrittenTemplate, writtenPath)
			return writeErr
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
