package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnresolvable indicates the launcher could not determine its own location.
var ErrUnresolvable = errors.New("unable to resolve the launcher's own location")

// WorkingDirs lists the directories dbtool expects under the project root.
var WorkingDirs = []string{"migrations", "schema"}

const rootOverrideEnv = "DBRUN_ROOT"

// Locate returns the absolute directory containing the dbrun executable.
// The result is independent of the caller's working directory and follows
// symlinks, so a symlinked install still resolves to the real checkout.
// DBRUN_ROOT overrides the lookup for tests and development checkouts.
func Locate() (string, error) {
	if override := os.Getenv(rootOverrideEnv); override != "" {
		return filepath.Abs(override)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	return rootFrom(exe)
}

func rootFrom(exe string) (string, error) {
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	return filepath.Dir(abs), nil
}

// EnsureLayout creates the working directories under root if absent.
// Existing directories are left untouched.
func EnsureLayout(root string) error {
	for _, dir := range WorkingDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("ensure %s directory: %w", dir, err)
		}
	}
	return nil
}
