// Where: cli/internal/infra/interaction/interaction.go
// What: Interactive primitives for selector prompts and TTY detection.
// Why: Let missing selectors be chosen interactively without touching parsing.
package interaction

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Prompter defines the interface for interactive selection.
type Prompter interface {
	Select(title string, options []string) (string, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
