//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedCheetahPath holds the path to a shared cheetah binary built once for all tests.
	sharedCheetahPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getCheetahBinary returns the path to the cheetah binary, building it once if needed.
func getCheetahBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "cheetah-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		cheetahPath := filepath.Join(tempDir, "cheetah")
		buildCmd := exec.Command("go", "build", "-o", cheetahPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build cheetah: %v", err))
		}

		sharedCheetahPath = cheetahPath
	})

	return sharedCheetahPath
}

// runCheetah runs the binary with an isolated HOME and returns combined output.
func runCheetah(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getCheetahBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "HOME="+cmd.Dir)
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// writeExport lays out a minimal OpenData bulk export.
func writeExport(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"INDEX/athletes.csv":              "id\nabc-123\n",
		"abc-123/{abc-123}.json":          `{"RIDES": [{"date": "2018/01/02", "METRICS": {"workout_time": "3600", "max_heartrate": ["172", "2200"]}}]}`,
		"abc-123/2018_01_02_07_00_00.csv": "secs,power\n0,200\n1,210\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
