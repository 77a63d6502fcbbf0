package conflict

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

// ReadLines reads path and splits its content into lines without any
// line-ending translation. Content containing a NUL byte is refused with
// ErrBinaryContent.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, mergeiterrors.NewBinaryContentError(path)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits content on newlines. A single trailing newline terminates
// the last line rather than producing an extra empty one.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// WriteLines rewrites path with lines verbatim in a single write, appending
// one trailing newline for the file as a whole.
func WriteLines(path string, lines []string) error {
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
