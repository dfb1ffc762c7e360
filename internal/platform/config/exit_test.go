package config_test

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/scorekeeper/internal/platform/config"
)

const exitHelperEnv = "SCOREKEEPER_EXITF_HELPER"

func TestExitfWritesStderrAndExits(t *testing.T) {
	if os.Getenv(exitHelperEnv) == "1" {
		config.Exitf("Error: %s", "scenario file is required")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfWritesStderrAndExits$")
	cmd.Env = append(os.Environ(), exitHelperEnv+"=1")
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run helper: got %v, want exit error", err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got, want := stderr.String(), "Error: scenario file is required\n"; !strings.Contains(got, want) {
		t.Fatalf("stderr = %q, want it to contain %q", got, want)
	}
}
