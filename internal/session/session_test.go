package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dborbit/dbrun/internal/venv"
)

func newEnv(t *testing.T) *venv.Env {
	t.Helper()
	env, err := venv.New(t.TempDir(), venv.Options{})
	if err != nil {
		t.Fatalf("venv.New: %v", err)
	}
	return env
}

func TestInteractivePropagatesShellExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the false(1) utility")
	}

	// Test stdin is not a terminal, so this exercises the plain-stdio path.
	err := Interactive(context.Background(), newEnv(t), "false")
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *exec.ExitError, got %v", err)
	}
	if ee.ExitCode() != 1 {
		t.Fatalf("shell exit code = %d, want 1", ee.ExitCode())
	}
}

func TestInteractiveCleanExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the true(1) utility")
	}

	if err := Interactive(context.Background(), newEnv(t), "true"); err != nil {
		t.Fatalf("Interactive returned error: %v", err)
	}
}

func TestInteractiveStartsLoginShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub shell requires a POSIX shell")
	}

	record := filepath.Join(t.TempDir(), "argv")
	stub := filepath.Join(t.TempDir(), "shell")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$*\" > '%s'\n", record)
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub shell: %v", err)
	}

	if err := Interactive(context.Background(), newEnv(t), stub); err != nil {
		t.Fatalf("Interactive returned error: %v", err)
	}

	argv, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("shell was never invoked: %v", err)
	}
	if got := strings.TrimSpace(string(argv)); got != "-l" {
		t.Fatalf("shell argv = %q, want login flag", got)
	}
}

func TestRunToolMissingBinary(t *testing.T) {
	// The tool path points inside a never-created environment.
	err := RunTool(context.Background(), newEnv(t), []string{"status"})
	if err == nil {
		t.Fatal("expected error for missing tool binary")
	}
}
