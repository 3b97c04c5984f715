// Where: cli/cmd/sblpayload/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"
	"runtime"

	"github.com/poruru/sbl-payload/cli/internal/command"
	"github.com/poruru/sbl-payload/cli/internal/infra/interaction"
	"github.com/poruru/sbl-payload/cli/internal/infra/runner"
)

var (
	getwd     = os.Getwd
	lookupEnv = os.LookupEnv
	hostOS    = runtime.GOOS
)

// buildDependencies constructs the runtime dependencies required by the CLI.
// Subprocess output is streamed straight to the terminal.
func buildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		Getwd:      getwd,
		Runner:     runner.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
		Prompter:   interaction.HuhPrompter{},
		IsTerminal: func() bool { return interaction.IsTerminal(os.Stdin) },
		GOOS:       hostOS,
		LookupEnv:  lookupEnv,
	}
}
