// Where: cli/internal/command/output.go
// What: Output helpers for command adapters.
// Why: Keep help, usage and error output on stderr with stable exit codes.
package command

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/poruru/sbl-payload/cli/internal/infra/ui"
	"github.com/poruru/sbl-payload/cli/internal/meta"
)

// exitWithError prints an error message and returns exit code 1.
func exitWithError(out io.Writer, err error) int {
	ui.New(out).Error(err.Error())
	return ExitFatal
}

// usageError prints usage followed by the parse error and returns exit code 2.
func usageError(parser *kong.Kong, out io.Writer, err error) int {
	printUsage(parser, out)
	fmt.Fprintf(out, "%s: error: %v\n", meta.AppName, err)
	return ExitUsage
}

func printHelp(parser *kong.Kong, out io.Writer) {
	writeUsage(parser, out, false)
}

func printUsage(parser *kong.Kong, out io.Writer) {
	writeUsage(parser, out, true)
}

func writeUsage(parser *kong.Kong, out io.Writer, summary bool) {
	stdout := parser.Stdout
	parser.Stdout = out
	defer func() { parser.Stdout = stdout }()

	ctx, err := kong.Trace(parser, nil)
	if err != nil {
		return
	}
	_ = ctx.PrintUsage(summary)
}
