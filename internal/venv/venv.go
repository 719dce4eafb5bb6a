// Package venv manages the scoped virtual environment a single dbrun
// invocation lives in: a uniquely named directory under the project root
// that is created, populated, and removed within one run.
package venv

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ToolName is the console script the editable install places in the env.
const ToolName = "dbtool"

var (
	// ErrCreate indicates the virtualenv primitive failed.
	ErrCreate = errors.New("virtualenv creation failed")
	// ErrInstall indicates pip could not install the local package.
	ErrInstall = errors.New("package installation failed")
)

// cleanupTargets are the build artifacts removed on teardown, relative to
// the project root. The list is deliberately closed; teardown never scans.
var cleanupTargets = []string{
	"build",
	"dist",
	"dbtool.egg-info",
	filepath.Join("src", "dbtool.egg-info"),
	filepath.Join("dbtool", "__pycache__"),
	filepath.Join("src", "dbtool", "__pycache__"),
}

// Options adjust how the environment is built.
type Options struct {
	// Python is the interpreter used to create the environment.
	Python string
	// Prefix is the environment directory name prefix (default ".venv").
	Prefix string
	// ExtraCleanup lists additional root-relative paths removed on teardown.
	ExtraCleanup []string
}

// Env is one scoped environment. It is owned by a single invocation and is
// not safe for concurrent use; concurrent *invocations* are isolated from
// each other by the unique directory suffix.
type Env struct {
	projectRoot  string
	dir          string
	python       string
	extraCleanup []string

	destroyOnce sync.Once
	destroyErr  error
}

// New allocates a unique directory name for the environment under
// projectRoot. Nothing is written to disk until Create runs, but Destroy is
// already safe to call.
func New(projectRoot string, opts Options) (*Env, error) {
	python := opts.Python
	if python == "" {
		python = "python3"
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = ".venv"
	}

	suffix, err := uniqueSuffix()
	if err != nil {
		return nil, fmt.Errorf("allocate environment name: %w", err)
	}

	return &Env{
		projectRoot:  projectRoot,
		dir:          filepath.Join(projectRoot, prefix+"-"+suffix),
		python:       python,
		extraCleanup: opts.ExtraCleanup,
	}, nil
}

func uniqueSuffix() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

// Dir returns the environment's root directory.
func (e *Env) Dir() string {
	return e.dir
}

// ProjectRoot returns the project root the environment is scoped to.
func (e *Env) ProjectRoot() string {
	return e.projectRoot
}

// BinDir returns the directory holding the environment's executables.
func (e *Env) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.dir, "Scripts")
	}
	return filepath.Join(e.dir, "bin")
}

// Tool returns the path of the installed dbtool executable.
func (e *Env) Tool() string {
	return filepath.Join(e.BinDir(), ToolName)
}

// Environ returns the process environment that activates this env: the
// bin directory is prepended to PATH and VIRTUAL_ENV points at the root.
// The ambient process environment is never mutated; each subprocess gets
// its own copy, so nested or concurrent runs cannot leak into each other.
func (e *Env) Environ() []string {
	environ := os.Environ()
	out := make([]string, 0, len(environ)+2)
	path := os.Getenv("PATH")
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "PATH", "VIRTUAL_ENV", "PYTHONHOME":
			continue
		}
		out = append(out, kv)
	}
	out = append(out,
		"VIRTUAL_ENV="+e.dir,
		"PATH="+e.BinDir()+string(os.PathListSeparator)+path,
	)
	return out
}

// Create materializes the environment with `python -m venv`.
func (e *Env) Create(ctx context.Context) error {
	log.Info("creating scoped environment", "dir", e.dir, "python", e.python)

	cmd := exec.CommandContext(ctx, e.python, "-m", "venv", e.dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s -m venv: %v", ErrCreate, e.python, err)
	}
	return nil
}

// Install upgrades pip and installs the local package (editable) plus its
// declared dependencies into the environment.
func (e *Env) Install(ctx context.Context) error {
	log.Info("installing local package", "root", e.projectRoot)

	steps := [][]string{
		{"install", "--upgrade", "pip"},
		{"install", "-e", e.projectRoot},
	}
	pip := filepath.Join(e.BinDir(), "pip")
	for _, args := range steps {
		cmd := exec.CommandContext(ctx, pip, args...)
		cmd.Env = e.Environ()
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%w: pip %s: %v", ErrInstall, strings.Join(args, " "), err)
		}
	}
	return nil
}

// Destroy removes the environment directory and the bounded set of build
// artifacts under the project root. It is safe to call at any point in the
// lifecycle, including after a failed Create, and later calls are no-ops.
func (e *Env) Destroy() error {
	e.destroyOnce.Do(func() {
		log.Info("removing scoped environment", "dir", e.dir)

		targets := []string{e.dir}
		for _, rel := range cleanupTargets {
			targets = append(targets, filepath.Join(e.projectRoot, rel))
		}
		for _, rel := range e.extraCleanup {
			targets = append(targets, filepath.Join(e.projectRoot, rel))
		}

		for _, target := range targets {
			if err := os.RemoveAll(target); err != nil && e.destroyErr == nil {
				e.destroyErr = fmt.Errorf("remove %s: %w", target, err)
			}
		}
	})
	return e.destroyErr
}
