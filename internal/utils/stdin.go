// Package utils provides small shared helpers.
package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadFromStdin returns everything piped into the process, verbatim. An
// interactive terminal (or an empty redirected file) yields an empty string
// immediately instead of blocking on input.
func ReadFromStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}

	interactive := info.Mode()&os.ModeCharDevice != 0
	emptyFile := info.Mode().IsRegular() && info.Size() == 0
	if interactive || emptyFile {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
