// Where: cli/cmd/sblpayload/main.go
// What: CLI entrypoint.
// Why: Run the payload integration with process-level dependencies.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poruru/sbl-payload/cli/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := command.Run(ctx, os.Args[1:], buildDependencies())
	stop()
	os.Exit(code)
}
