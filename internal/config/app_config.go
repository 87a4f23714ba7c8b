// Package config discovers and merges dirtree configuration files.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/spf13/viper"

	"github.com/temirov/dirtree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds command defaults.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree" yaml:"tree"`
}

// TreeConfiguration defines defaults for the tree command. Unset fields leave
// the built-in behaviour in place.
type TreeConfiguration struct {
	Format          string   `mapstructure:"format" yaml:"format,omitempty"`
	FollowSymlinks  *bool    `mapstructure:"follow_symlinks" yaml:"follow_symlinks,omitempty"`
	Sizes           *bool    `mapstructure:"sizes" yaml:"sizes,omitempty"`
	Clipboard       *bool    `mapstructure:"clipboard" yaml:"clipboard,omitempty"`
	PreferencesFile string   `mapstructure:"preferences_file" yaml:"preferences_file,omitempty"`
	ExcludeDirs     []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
	ExcludeFiles    []string `mapstructure:"exclude_files" yaml:"exclude_files"`
}

// LoadApplicationConfiguration loads configuration from the global file and
// then the local one, the latter winning field by field.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, errors.Wrap(err, "determine working directory")
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localConfig, loadErr := loadConfigurationFromPath(resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath))
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Tree.ExcludeDirs = utils.DeduplicatePatterns(merged.Tree.ExcludeDirs)
	merged.Tree.ExcludeFiles = utils.DeduplicatePatterns(merged.Tree.ExcludeFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if oserror.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, errors.Wrapf(statErr, "stat configuration %s", path)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, errors.Newf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, errors.Wrapf(readErr, "read configuration from %s", path)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, errors.Wrapf(decodeErr, "decode configuration from %s", path)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.FollowSymlinks != nil {
		result.FollowSymlinks = cloneBool(override.FollowSymlinks)
	}
	if override.Sizes != nil {
		result.Sizes = cloneBool(override.Sizes)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.PreferencesFile != "" {
		result.PreferencesFile = override.PreferencesFile
	}
	if len(override.ExcludeDirs) > 0 {
		result.ExcludeDirs = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirs)...)
	}
	if len(override.ExcludeFiles) > 0 {
		result.ExcludeFiles = append([]string{}, utils.DeduplicatePatterns(override.ExcludeFiles)...)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
