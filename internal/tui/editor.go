package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// resolveEditor picks the editor command: explicit override first, then
// GIT_EDITOR, EDITOR, git's core.editor, and finally vi.
func resolveEditor(override string) string {
	for _, candidate := range []string{override, os.Getenv("GIT_EDITOR"), os.Getenv("EDITOR")} {
		if candidate != "" {
			return candidate
		}
	}
	if out, err := exec.Command("git", "config", "--get", "core.editor").Output(); err == nil {
		if editor := strings.TrimSpace(string(out)); editor != "" {
			return editor
		}
	}
	return "vi"
}

// OpenEditor writes initialContent to a temp file, opens it in the user's
// editor and returns the file's content after the editor exits.
func OpenEditor(initialContent, filenamePattern, editorOverride string) (string, error) {
	tmp, err := os.CreateTemp("", filenamePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.WriteString(initialContent); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// The editor may be a command with arguments (e.g. "code --wait"), so it
	// goes through the shell rather than exec'ing the first word.
	cmd := exec.Command("sh", "-c", resolveEditor(editorOverride)+" "+name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}
