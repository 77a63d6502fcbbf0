// Package errors provides sentinel errors and custom error types for the mergeit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrBinaryContent indicates that a file or version contains binary data
	ErrBinaryContent = errors.New("binary content")

	// ErrHunkNotFound indicates that a hunk index is stale or out of range
	ErrHunkNotFound = errors.New("hunk not found")

	// ErrVersionUnavailable indicates that a side has no content for this conflict
	ErrVersionUnavailable = errors.New("version unavailable")

	// ErrNoConflicts indicates that a file contains no conflict markers
	ErrNoConflicts = errors.New("no conflicts")

	// ErrNoActiveSession indicates that no resolution session is currently open
	ErrNoActiveSession = errors.New("no active session")
)

// BinaryContentError represents an error when a file or index stage holds binary data
type BinaryContentError struct {
	Path string
}

func (e *BinaryContentError) Error() string {
	return fmt.Sprintf("%s is binary and cannot be resolved interactively", e.Path)
}

// Is returns true if the target error is ErrBinaryContent
func (e *BinaryContentError) Is(target error) bool {
	return target == ErrBinaryContent
}

// NewBinaryContentError creates a new BinaryContentError
func NewBinaryContentError(path string) *BinaryContentError {
	return &BinaryContentError{Path: path}
}

// HunkNotFoundError represents an error when a hunk index does not match the current parse
type HunkNotFoundError struct {
	Path  string
	Index int
	Count int
}

func (e *HunkNotFoundError) Error() string {
	return fmt.Sprintf("hunk %d does not exist in %s (%d hunks present)", e.Index, e.Path, e.Count)
}

// Is returns true if the target error is ErrHunkNotFound
func (e *HunkNotFoundError) Is(target error) bool {
	return target == ErrHunkNotFound
}

// NewHunkNotFoundError creates a new HunkNotFoundError
func NewHunkNotFoundError(path string, index, count int) *HunkNotFoundError {
	return &HunkNotFoundError{Path: path, Index: index, Count: count}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
