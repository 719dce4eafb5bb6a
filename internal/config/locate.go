package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Filenames dbtool looks for, in priority order. The example file ships with
// the checkout so a fresh clone still works out of the box.
const (
	PrimaryFileName = "dbtool.config.yml"
	ExampleFileName = "dbtool.config.example.yml"
)

// ErrConfigNotFound indicates neither config file exists under the project root.
var ErrConfigNotFound = errors.New("no dbtool config found; create " + PrimaryFileName + " (or keep " + ExampleFileName + ") in the project root")

// Selection is the outcome of config resolution for one invocation.
type Selection struct {
	// Path is the config file to inject via -c. Empty when Explicit is set.
	Path string
	// Example reports that the fallback example file was selected.
	Example bool
	// Explicit reports the caller already passed a config flag; nothing is injected.
	Explicit bool
}

// HasExplicitFlag reports whether args already name a config file via the
// tool's -c / --config option. The separate (-c PATH), equals (-c=PATH),
// and attached (-cPATH) short forms all count. Arguments are scanned
// positionally, not parsed against the tool's full grammar, so a flag
// value that itself spells the option counts as explicit.
func HasExplicitFlag(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			return true
		case strings.HasPrefix(arg, "-c"):
			return true
		}
	}
	return false
}

// Resolve decides which config file the wrapped tool should receive.
// The primary file always beats the example file; both are checked fresh on
// every call. An explicit flag in args suppresses injection entirely.
func Resolve(root string, args []string) (Selection, error) {
	if HasExplicitFlag(args) {
		return Selection{Explicit: true}, nil
	}

	primary := filepath.Join(root, PrimaryFileName)
	if fileExists(primary) {
		return Selection{Path: primary}, nil
	}

	example := filepath.Join(root, ExampleFileName)
	if fileExists(example) {
		return Selection{Path: example, Example: true}, nil
	}

	return Selection{}, ErrConfigNotFound
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
