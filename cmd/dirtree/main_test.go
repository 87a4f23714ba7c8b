package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// #nosec G204
func buildBinary(testingHandle *testing.T) string {
	testingHandle.Helper()
	binaryName := "dirtree_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testingHandle.TempDir(), binaryName)
	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testingHandle.Fatalf("failed to build binary: %v\n%s", buildErr, string(outputData))
	}
	return binaryPath
}

// #nosec G204
func runBinary(testingHandle *testing.T, binaryPath string, workingDirectory string, arguments ...string) (string, string, int) {
	testingHandle.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+testingHandle.TempDir())
	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	runErr := command.Run()
	exitCode := 0
	if runErr != nil {
		exitError, isExitError := runErr.(*exec.ExitError)
		if !isExitError {
			testingHandle.Fatalf("run %v: %v", arguments, runErr)
		}
		exitCode = exitError.ExitCode()
	}
	return standardOutput.String(), standardError.String(), exitCode
}

func TestDirtreeBinary(testingHandle *testing.T) {
	if testing.Short() {
		testingHandle.Skip("builds the binary")
	}
	binaryPath := buildBinary(testingHandle)

	workingDirectory := testingHandle.TempDir()
	projectDirectory := filepath.Join(workingDirectory, "proj")
	if err := os.MkdirAll(filepath.Join(projectDirectory, ".git"), 0o755); err != nil {
		testingHandle.Fatalf("create fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "main.go"), []byte("package main\n"), 0o644); err != nil {
		testingHandle.Fatalf("create fixture: %v", err)
	}

	testCases := []struct {
		name             string
		arguments        []string
		expectedExitCode int
		expectedOutput   string
		expectedContains string
	}{
		{
			name:           "raw_tree_hides_defaults",
			arguments:      []string{"proj"},
			expectedOutput: "proj\n└── main.go\n",
		},
		{
			name:             "json_tree",
			arguments:        []string{"--dir", "proj", "--format", "json"},
			expectedContains: "\"main.go\": null",
		},
		{
			name:             "invalid_format_fails",
			arguments:        []string{"proj", "--format", "yaml"},
			expectedExitCode: 1,
		},
		{
			name:             "missing_directory_is_contained",
			arguments:        []string{"absent"},
			expectedContains: "absent\n└── [Not Found or Broken Symlink]",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			standardOutput, standardError, exitCode := runBinary(subTest, binaryPath, workingDirectory, testCase.arguments...)
			if exitCode != testCase.expectedExitCode {
				subTest.Fatalf("expected exit code %d, got %d\nstderr: %s", testCase.expectedExitCode, exitCode, standardError)
			}
			if testCase.expectedOutput != "" && standardOutput != testCase.expectedOutput {
				subTest.Fatalf("unexpected output:\n%s", standardOutput)
			}
			if testCase.expectedContains != "" && !strings.Contains(standardOutput, testCase.expectedContains) {
				subTest.Fatalf("expected %q in output:\n%s", testCase.expectedContains, standardOutput)
			}
		})
	}
}
