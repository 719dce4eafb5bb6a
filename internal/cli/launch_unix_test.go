//go:build !windows

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestLaunchInterruptedMidDispatchCleansUp(t *testing.T) {
	root := t.TempDir()
	writePrimaryConfig(t, root)

	// The installed dbtool announces readiness and then blocks, so the
	// interrupt is guaranteed to land while dispatch is in flight.
	ready := filepath.Join(t.TempDir(), "ready")
	script := fmt.Sprintf(`#!/bin/sh
set -e
[ "$1" = -m ] || exit 2
[ "$2" = venv ] || exit 2
dir="$3"
mkdir -p "$dir/bin"
cat > "$dir/bin/pip" <<'PIP'
#!/bin/sh
exit 0
PIP
cat > "$dir/bin/dbtool" <<'TOOL'
#!/bin/sh
touch '%s'
sleep 30
TOOL
chmod +x "$dir/bin/pip" "$dir/bin/dbtool"
`, ready)
	stub := filepath.Join(t.TempDir(), "python3")
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub interpreter: %v", err)
	}
	t.Setenv("DBRUN_PYTHON", stub)

	go func() {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(ready); err == nil {
				_ = syscall.Kill(os.Getpid(), syscall.SIGINT)
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	err := launch(t, root, []string{"status"})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError after interrupt, got %v", err)
	}
	if exitErr.Code == 0 {
		t.Fatal("interrupted dispatch must not report success")
	}
	if envs := remainingEnvs(t, root); len(envs) != 0 {
		t.Fatalf("scoped environments left behind after interrupt: %v", envs)
	}
}
