// Where: cli/internal/infra/ui/ui.go
// What: UserInterface adapter for usecases.
// Why: Provide a stable output surface without leaking Console details.
package ui

import "io"

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by usecases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Command(dir, name string, args ...string)
	Block(emoji, title string, rows []KeyValue)
}

// NewUI returns a UserInterface writing through a Console.
func NewUI(out io.Writer) UserInterface {
	return consoleUI{console: New(out)}
}

// NewPlainUI returns a UserInterface without emoji or colour.
func NewPlainUI(out io.Writer) UserInterface {
	return consoleUI{console: NewWithEmoji(out, false, false)}
}

type consoleUI struct {
	console *Console
}

func (c consoleUI) Info(msg string) { c.console.Info(msg) }
func (c consoleUI) Warn(msg string) { c.console.Warn(msg) }
func (c consoleUI) Success(msg string) { c.console.Success(msg) }

func (c consoleUI) Command(dir, name string, args ...string) {
	c.console.Command(dir, name, args...)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.BlockStart(emoji, title)
	for _, kv := range rows {
		c.console.Item(kv.Key, kv.Value)
	}
	c.console.BlockEnd()
}
