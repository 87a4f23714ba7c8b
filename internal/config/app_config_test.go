package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/dirtree/internal/utils"
)

type configTestCase struct {
	name               string
	globalContent      string
	localContent       string
	explicitPath       string
	expectFormat       string
	expectFollow       *bool
	expectSizes        *bool
	expectClipboard    *bool
	expectPreferences  string
	expectExcludeDirs  []string
	expectExcludeFiles []string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:               "local_overrides_global",
			globalContent:      "tree:\n  format: raw\n  sizes: true\n  clipboard: true\n  exclude_dirs: [build]\n",
			localContent:       "tree:\n  format: json\n  clipboard: false\n  follow_symlinks: true\n  exclude_files: ['*.log', '*.log']\n",
			expectFormat:       "json",
			expectFollow:       boolPointer(true),
			expectSizes:        boolPointer(true),
			expectClipboard:    boolPointer(false),
			expectExcludeDirs:  []string{"build"},
			expectExcludeFiles: []string{"*.log"},
		},
		{
			name:              "explicit_path_replaces_local",
			globalContent:     "tree:\n  format: json\n",
			localContent:      "tree:\n  format: xml\n",
			explicitPath:      "custom.yaml",
			expectFormat:      "raw",
			expectPreferences: "custom_prefs.json",
		},
		{
			name:              "local_exclusions_replace_global",
			globalContent:     "tree:\n  exclude_dirs: [build, out]\n",
			localContent:      "tree:\n  exclude_dirs: [vendor]\n",
			expectExcludeDirs: []string{"vendor"},
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte("tree:\n  format: raw\n  preferences_file: custom_prefs.json\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDir,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			tree := loadedConfig.Tree
			if tree.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, tree.Format)
			}
			assertBoolPointer(t, "follow_symlinks", testCase.expectFollow, tree.FollowSymlinks)
			assertBoolPointer(t, "sizes", testCase.expectSizes, tree.Sizes)
			assertBoolPointer(t, "clipboard", testCase.expectClipboard, tree.Clipboard)
			if tree.PreferencesFile != testCase.expectPreferences {
				t.Fatalf("expected preferences file %q, got %q", testCase.expectPreferences, tree.PreferencesFile)
			}
			if len(testCase.expectExcludeDirs) > 0 || len(tree.ExcludeDirs) > 0 {
				if !reflect.DeepEqual(testCase.expectExcludeDirs, tree.ExcludeDirs) {
					t.Fatalf("expected exclude_dirs %v, got %v", testCase.expectExcludeDirs, tree.ExcludeDirs)
				}
			}
			if len(testCase.expectExcludeFiles) > 0 || len(tree.ExcludeFiles) > 0 {
				if !reflect.DeepEqual(testCase.expectExcludeFiles, tree.ExcludeFiles) {
					t.Fatalf("expected exclude_files %v, got %v", testCase.expectExcludeFiles, tree.ExcludeFiles)
				}
			}
		})
	}
}

func assertBoolPointer(t *testing.T, field string, expected *bool, actual *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override, got %v", field, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", field)
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("create directory: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, HomeDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestLoadApplicationConfigurationRejectsMalformedYAML(t *testing.T) {
	workingDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte("tree: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, HomeDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for malformed configuration")
	}
}

func TestMergeClonesPointers(t *testing.T) {
	override := ApplicationConfiguration{Tree: TreeConfiguration{Sizes: boolPointer(true)}}
	merged := ApplicationConfiguration{}.Merge(override)
	*override.Tree.Sizes = false
	if merged.Tree.Sizes == nil || !*merged.Tree.Sizes {
		t.Fatalf("expected merged value to be independent of the override")
	}
}
