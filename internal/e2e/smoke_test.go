package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smokeAddress = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeSessionFixture(home))

	stdout, stderr, err := runWhispr(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "dev")

	stdout, stderr, err = runWhispr(t, binaryPath, home, "wallet", "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Address: "+smokeAddress)
	assert.Contains(t, stdout, "Balance: unavailable")

	stdout, stderr, err = runWhispr(t, binaryPath, home, "logout")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Signed out.")

	stdout, stderr, err = runWhispr(t, binaryPath, home, "wallet", "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No wallet connected")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "whispr-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/whispr")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build whispr binary: %s", string(output))
	return binaryPath
}

func runWhispr(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		// A closed port keeps the advisory balance query offline.
		"WHISPR_RPC_ENDPOINT=http://127.0.0.1:1",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeSessionFixture(home string) error {
	cacheDir := filepath.Join(home, ".whispr", "cache")
	if err := os.MkdirAll(cacheDir, 0o700); err != nil {
		return err
	}

	session := `{"access_token":"smoke-token","wallets":[{"address":"` + smokeAddress + `"}]}`

	return os.WriteFile(filepath.Join(cacheDir, "session"), []byte(session), 0o600)
}
