//go:build !windows

package cli

import (
	"os/exec"
	"syscall"
)

func signalExitCode(err *exec.ExitError) (int, bool) {
	ws, ok := err.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return 128 + int(ws.Signal()), true
}
