package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dborbit/dbrun/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		// The wrapped command already reported its own failure.
		os.Exit(exitErr.Code)
	}

	log.Error(err.Error())
	os.Exit(1)
}
