package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSizedFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
}

func makeDirectory(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func makeSymlink(t *testing.T, target string, linkPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	require.NoError(t, os.Symlink(target, linkPath))
}

func joinLines(lines ...string) string {
	var buffer bytes.Buffer
	for index, line := range lines {
		if index > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)
	}
	return buffer.String()
}
