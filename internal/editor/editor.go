// Package editor launches an external text editor attached to the terminal.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

type Editor struct {
	command string
}

// New picks the editor command: the explicit value when non-empty, then
// $EDITOR, then $VISUAL, then vi.
func New(command string) *Editor {
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = os.Getenv("VISUAL")
	}
	if command == "" {
		command = "vi"
	}
	return &Editor{command: command}
}

// Command returns the resolved editor command.
func (e *Editor) Command() string {
	return e.command
}

// Edit opens path in the editor and blocks until it exits. The editor gets
// the real stdin/stdout/stderr so interactive editors work.
func (e *Editor) Edit(path string) error {
	cmd := exec.Command(e.command, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}
