package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"gopkg.in/yaml.v3"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	templateIndent = 2
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultConfiguration returns the configuration written by the init command.
func DefaultConfiguration() ApplicationConfiguration {
	disabled := false
	return ApplicationConfiguration{Tree: TreeConfiguration{
		Format:          types.FormatRaw,
		FollowSymlinks:  cloneBool(&disabled),
		Sizes:           cloneBool(&disabled),
		Clipboard:       cloneBool(&disabled),
		PreferencesFile: utils.PreferencesFileName,
		ExcludeDirs:     []string{},
		ExcludeFiles:    []string{},
	}}
}

// RenderDefaultConfiguration encodes DefaultConfiguration as YAML.
func RenderDefaultConfiguration() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(templateIndent)
	if encodeErr := encoder.Encode(DefaultConfiguration()); encodeErr != nil {
		return nil, errors.Wrap(encodeErr, "encode default configuration")
	}
	if closeErr := encoder.Close(); closeErr != nil {
		return nil, errors.Wrap(closeErr, "encode default configuration")
	}
	return buffer.Bytes(), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, "determine working directory for configuration")
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", errors.Wrap(err, "resolve home directory for configuration")
			}
			homeDirectory = resolvedHome
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", errors.Wrapf(err, "create configuration directory %s", configurationDirectory)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", errors.Newf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", errors.Newf("configuration file already exists at %s", destinationPath)
		}
	} else if !oserror.IsNotExist(err) {
		return "", errors.Wrapf(err, "inspect configuration path %s", destinationPath)
	}

	template, renderErr := RenderDefaultConfiguration()
	if renderErr != nil {
		return "", renderErr
	}
	if err := os.WriteFile(destinationPath, template, 0o600); err != nil {
		return "", errors.Wrapf(err, "write configuration to %s", destinationPath)
	}

	return destinationPath, nil
}
