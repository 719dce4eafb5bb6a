package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dborbit/dbrun/internal/config"
	"github.com/dborbit/dbrun/internal/project"
	"github.com/dborbit/dbrun/internal/session"
	"github.com/dborbit/dbrun/internal/venv"
)

var noticeLabel = color.New(color.FgYellow, color.Bold).SprintFunc()

func runLaunch(cmd *cobra.Command, args []string) error {
	if os.Getenv("DBRUN_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	root, err := project.Locate()
	if err != nil {
		return err
	}
	log.Debug("project root resolved", "root", root)

	settings, err := config.LoadFromRoot(root)
	if err != nil {
		return err
	}

	// Config resolution runs before anything touches the filesystem, so a
	// missing config never leaves a half-built environment behind. The
	// zero-argument (interactive) path skips resolution entirely.
	var sel config.Selection
	if len(args) > 0 {
		sel, err = config.Resolve(root, args)
		if err != nil {
			return err
		}
		switch {
		case sel.Explicit:
			log.Debug("caller supplied an explicit config flag")
		case sel.Example:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s not found; using %s\n",
				noticeLabel("notice:"), config.PrimaryFileName, config.ExampleFileName)
		default:
			log.Debug("config resolved", "path", sel.Path)
		}
	}

	env, err := venv.New(root, venv.Options{
		Python:       settings.Interpreter(),
		Prefix:       settings.VenvPrefix,
		ExtraCleanup: settings.Cleanup.Extra,
	})
	if err != nil {
		return err
	}

	// Teardown is armed before creation starts. An interrupt cancels the
	// context, which unblocks whichever subprocess is running; the deferred
	// Destroy then runs before the error propagates out.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if derr := env.Destroy(); derr != nil {
			log.Warn("cleanup incomplete", "error", derr)
		}
	}()

	if err := env.Create(ctx); err != nil {
		return err
	}
	if err := env.Install(ctx); err != nil {
		return err
	}
	if err := project.EnsureLayout(root); err != nil {
		return err
	}

	return dispatch(ctx, env, settings, sel, args)
}

func dispatch(ctx context.Context, env *venv.Env, settings config.Settings, sel config.Selection, args []string) error {
	if len(args) == 0 {
		log.Info("starting interactive session", "env", env.Dir())
		return exitStatus(session.Interactive(ctx, env, settings.Shell))
	}

	toolArgs := args
	if sel.Path != "" {
		toolArgs = append([]string{"-c", sel.Path}, args...)
	}
	log.Debug("running wrapped tool", "tool", venv.ToolName, "args", toolArgs)
	return exitStatus(session.RunTool(ctx, env, toolArgs))
}
