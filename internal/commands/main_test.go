package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	binaryPath string
	ledgerDir  string
)

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "cryptogains-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "cryptogains")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/cryptogains")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	ledgerDir, err = filepath.Abs("../../testdata/ledger")
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// runCryptogains runs the binary in dir and returns combined output.
func runCryptogains(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"CRYPTOGAINS_TAX_YEAR=",
		"CRYPTOGAINS_FIAT_CURRENCY=",
		"CRYPTOGAINS_LEDGER_DIR=",
		"CRYPTOGAINS_LOG_LEVEL=",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
