// Package session dispatches work into a scoped environment: either a
// direct invocation of the installed tool or an interactive shell.
package session

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/term"

	"github.com/dborbit/dbrun/internal/venv"
)

// RunTool invokes the installed dbtool with args inside env. The caller's
// standard streams are forwarded and the subprocess error is returned
// unchanged so exit status can be propagated.
func RunTool(ctx context.Context, env *venv.Env, args []string) error {
	cmd := exec.CommandContext(ctx, env.Tool(), args...)
	cmd.Env = env.Environ()
	cmd.Dir = env.ProjectRoot()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Interactive starts a login-style shell inside env and blocks until it
// exits. When stdin is a terminal the shell runs on a pseudo-terminal with
// the controlling terminal in raw mode; otherwise the standard streams are
// wired through directly.
func Interactive(ctx context.Context, env *venv.Env, shell string) error {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = defaultShell()
	}

	cmd := exec.CommandContext(ctx, shell, loginShellArgs()...)
	cmd.Env = env.Environ()
	cmd.Dir = env.ProjectRoot()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runPTY(cmd)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}

func loginShellArgs() []string {
	if runtime.GOOS == "windows" {
		return nil
	}
	return []string{"-l"}
}
