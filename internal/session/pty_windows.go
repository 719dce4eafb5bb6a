//go:build windows

package session

import (
	"os"
	"os/exec"
)

// runPTY has no ConPTY support; wire the standard streams directly.
func runPTY(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
