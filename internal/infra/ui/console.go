// Where: cli/internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize emojis, indentation, and command echo across integration steps.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool
	commandColor func(...any) string
}

// New creates a new Console writing to the provided writer. Emoji and colour
// are enabled only when out is a terminal.
func New(out io.Writer) *Console {
	tty := isTerminal(out)
	return NewWithEmoji(out, tty, tty && supportsColorOutput())
}

// NewWithEmoji creates a new Console with explicit emoji and colour settings.
func NewWithEmoji(out io.Writer, emoji, colour bool) *Console {
	c := &Console{Out: out, EmojiEnabled: emoji}
	if colour {
		c.commandColor = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	} else {
		c.commandColor = func(a ...any) string { return fmt.Sprint(a...) }
	}
	return c
}

// Header prints a section header with an emoji.
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), title)
}

// BlockStart starts a logical block of information with an emoji header.
func (c *Console) BlockStart(emoji, title string) {
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
}

// BlockEnd ends a logical block.
func (c *Console) BlockEnd() {
	fmt.Fprintln(c.Out)
}

// Item prints a key-value item with indentation.
// Example:    Toolchain:    GCC5.
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-14s %v\n", key+":", value)
}

// Command echoes a subprocess invocation.
// Example: $ python BuildLoader.py build qemu (in /ws/SlimBootloader).
func (c *Console) Command(dir, name string, args ...string) {
	line := strings.Join(append([]string{name}, args...), " ")
	fmt.Fprintf(c.Out, "%s$ %s\n", c.emojiPrefix("▶"), c.commandColor(line))
	if dir != "" {
		fmt.Fprintf(c.Out, "   (in %s)\n", dir)
	}
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	prefix := c.emojiPrefix("✅")
	if prefix == "" {
		prefix = "[ok] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	fmt.Fprintf(c.Out, "%s\n", msg)
}

// Warn prints a warning message with an emoji.
func (c *Console) Warn(msg string) {
	prefix := c.emojiPrefix("⚠️")
	if prefix == "" {
		prefix = "[warn] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

// Error prints a fatal error line.
func (c *Console) Error(msg string) {
	prefix := c.emojiPrefix("✗")
	if prefix == "" {
		prefix = "[error] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// supportsColorOutput reports whether colour escapes are wanted.
// color.NoColor already reflects NO_COLOR, TERM=dumb, and non-TTY; we only add a mono check.
func supportsColorOutput() bool {
	if color.NoColor {
		return false
	}
	termType := strings.ToLower(os.Getenv("TERM"))
	return !strings.Contains(termType, "mono")
}
