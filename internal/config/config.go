package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// SettingsFileName is the optional launcher settings file under the project root.
const SettingsFileName = ".dbrun.toml"

const interpreterOverrideEnv = "DBRUN_PYTHON"

// Settings captures the user editable launcher settings stored in .dbrun.toml.
// Every field is optional; zero values fall back to built-in defaults.
type Settings struct {
	Python     string       `toml:"python"`
	Shell      string       `toml:"shell"`
	VenvPrefix string       `toml:"venv_prefix"`
	Cleanup    CleanupBlock `toml:"cleanup"`
}

// CleanupBlock lists additional artifacts removed during teardown.
type CleanupBlock struct {
	Extra []string `toml:"extra"`
}

var (
	// ErrInvalidVenvPrefix indicates venv_prefix is not a bare directory name.
	ErrInvalidVenvPrefix = errors.New("config.venv_prefix must be a bare directory name")
	// ErrInvalidCleanupPath indicates a cleanup.extra entry escapes the project root.
	ErrInvalidCleanupPath = errors.New("config.cleanup.extra entries must be relative paths inside the project")
)

// Default returns the baseline launcher settings.
func Default() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Python == "" {
		s.Python = "python3"
	}
	if s.VenvPrefix == "" {
		s.VenvPrefix = ".venv"
	}
}

// Validate ensures the settings can guide the launcher's behavior.
func (s Settings) Validate() error {
	if s.VenvPrefix != filepath.Base(s.VenvPrefix) || s.VenvPrefix == "." || s.VenvPrefix == ".." {
		return ErrInvalidVenvPrefix
	}
	for _, extra := range s.Cleanup.Extra {
		if extra == "" || filepath.IsAbs(extra) {
			return ErrInvalidCleanupPath
		}
		clean := filepath.Clean(extra)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
			return ErrInvalidCleanupPath
		}
	}
	return nil
}

// Interpreter returns the Python executable used to build the environment.
// The DBRUN_PYTHON environment variable beats the settings file.
func (s Settings) Interpreter() string {
	if override := os.Getenv(interpreterOverrideEnv); override != "" {
		return override
	}
	return s.Python
}

// Load reads settings from disk. Missing files return the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, err
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// LoadFromRoot reads the launcher settings for a project root.
func LoadFromRoot(root string) (Settings, error) {
	return Load(filepath.Join(root, SettingsFileName))
}
