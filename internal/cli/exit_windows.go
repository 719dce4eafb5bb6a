//go:build windows

package cli

import "os/exec"

func signalExitCode(*exec.ExitError) (int, bool) {
	return 0, false
}
