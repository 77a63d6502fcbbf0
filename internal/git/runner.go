// Package git provides a wrapper around git commands and go-git for repository operations.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// defaultRunner is the global runner used by the package-level functions
var defaultRunner = &CommandRunner{}

// SetWorkingDir sets the working directory for the default git runner.
func SetWorkingDir(dir string) {
	defaultRunner.workingDir = dir
}

// GetWorkingDir returns the current working directory setting for the default runner.
func GetWorkingDir() string {
	return defaultRunner.workingDir
}

// RunGitCommand executes a git command using the default runner and returns the output.
// It uses context.Background() with a default timeout.
func RunGitCommand(args ...string) (string, error) {
	return defaultRunner.Run(context.Background(), args...)
}

// RunGitCommandInDir executes a git command in a specific directory and returns the output.
func RunGitCommandInDir(dir string, args ...string) (string, error) {
	runner := &CommandRunner{workingDir: dir}
	return runner.Run(context.Background(), args...)
}

// RunGitCommandWithContext executes a git command with the given context using the default runner.
func RunGitCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.Run(ctx, args...)
}

// Run executes a git command with the given context and returns the output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, true, args...)
}

// RunRaw executes a git command and returns the raw output without trimming.
// Stage content must come back byte for byte, so no whitespace is touched.
func (r *CommandRunner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, false, args...)
}

// runInternal is the internal implementation that handles directory and trimming
func (r *CommandRunner) runInternal(ctx context.Context, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", mergeiterrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", mergeiterrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// RunGitCommandRaw executes a git command using the default runner and returns the raw output (no trimming)
func RunGitCommandRaw(args ...string) (string, error) {
	return defaultRunner.RunRaw(context.Background(), args...)
}

// RunGitCommandRawWithContext executes a git command using the default runner and returns the raw output (no trimming) with context
func RunGitCommandRawWithContext(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.RunRaw(ctx, args...)
}

// RunGitCommandLines executes a git command using the default runner and returns output as lines
func RunGitCommandLines(args ...string) ([]string, error) {
	output, err := RunGitCommand(args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// RunGitCommandLinesWithContext executes a git command with context and returns output as lines
func RunGitCommandLinesWithContext(ctx context.Context, args ...string) ([]string, error) {
	output, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// Runner defines the interface for git operations used by the resolution engine.
// This allows the engine to be used with both real git and mock implementations.
type Runner interface {
	// Merge state
	ReadStage(ctx context.Context, path string, stage Stage) ([]byte, error)
	StageFile(ctx context.Context, path string) error
	UnmergedFiles(ctx context.Context) ([]string, error)
	MergeInProgress(ctx context.Context) (bool, error)

	// Runner state
	SetWorkingDir(dir string)
	GetWorkingDir() string

	// Low-level Commands
	RunGitCommand(args ...string) (string, error)
	RunGitCommandWithContext(ctx context.Context, args ...string) (string, error)
}

// NewRealRunner returns a standard implementation of Runner that calls
// the package-level git functions.
func NewRealRunner() Runner {
	return &realRunner{}
}

// NewRealRunnerWithDir returns a standard implementation of Runner that calls
// the package-level git functions in a specific directory.
func NewRealRunnerWithDir(dir string) Runner {
	return &realRunner{workingDir: dir}
}

// realRunner implements Runner by calling the actual git package functions
type realRunner struct {
	workingDir string
}

func (r *realRunner) SetWorkingDir(dir string) {
	r.workingDir = dir
}

func (r *realRunner) GetWorkingDir() string {
	return r.workingDir
}

func (r *realRunner) runner() *CommandRunner {
	if r.workingDir != "" {
		return &CommandRunner{workingDir: r.workingDir}
	}
	return defaultRunner
}

func (r *realRunner) ReadStage(ctx context.Context, path string, stage Stage) ([]byte, error) {
	return readStage(ctx, r.runner(), path, stage)
}

func (r *realRunner) StageFile(ctx context.Context, path string) error {
	return stageFile(ctx, r.runner(), path)
}

func (r *realRunner) UnmergedFiles(ctx context.Context) ([]string, error) {
	return unmergedFiles(ctx, r.runner())
}

func (r *realRunner) MergeInProgress(ctx context.Context) (bool, error) {
	return mergeInProgress(ctx, r.runner())
}

func (r *realRunner) RunGitCommand(args ...string) (string, error) {
	return r.runner().Run(context.Background(), args...)
}

func (r *realRunner) RunGitCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return r.runner().Run(ctx, args...)
}
