package actions

import (
	"context"
	"fmt"
	"path/filepath"

	"mergeit.dev/mergeit/internal/conflict"
	"mergeit.dev/mergeit/internal/git"
)

// stageFor maps an engine side to its pre-merge index slot
func stageFor(side conflict.Side) git.Stage {
	switch side {
	case conflict.SideBase:
		return git.StageBase
	case conflict.SideRemote:
		return git.StageTheirs
	default:
		return git.StageOurs
	}
}

// repoRelative translates the engine's absolute path into the repo-root
// relative form git's index operations expect.
func repoRelative(repoRoot, path string) (string, error) {
	if !filepath.IsAbs(path) {
		return path, nil
	}
	rel, err := filepath.Rel(repoRoot, path)
	if err != nil {
		return "", fmt.Errorf("%s is outside the repository at %s: %w", path, repoRoot, err)
	}
	return rel, nil
}

// gitStageReader adapts the git runner to the engine's StageReader collaborator
type gitStageReader struct {
	runner   git.Runner
	repoRoot string
}

func (g gitStageReader) ReadStage(ctx context.Context, path string, side conflict.Side) ([]byte, error) {
	rel, err := repoRelative(g.repoRoot, path)
	if err != nil {
		return nil, err
	}
	return g.runner.ReadStage(ctx, rel, stageFor(side))
}

// gitStager adapts the git runner to the engine's Stager collaborator
type gitStager struct {
	runner   git.Runner
	repoRoot string
}

func (g gitStager) StageFile(ctx context.Context, path string) error {
	rel, err := repoRelative(g.repoRoot, path)
	if err != nil {
		return err
	}
	return g.runner.StageFile(ctx, rel)
}

// confirmPrompter asks the resolved question inline with survey
type confirmPrompter struct{}

func (confirmPrompter) ConfirmResolved(path string) (bool, error) {
	return promptConfirm(fmt.Sprintf("%s has no remaining conflicts. Mark as resolved?", path), true)
}

// autoPrompter answers yes without asking (--stage or autoStage config)
type autoPrompter struct{}

func (autoPrompter) ConfirmResolved(string) (bool, error) {
	return true, nil
}

// deferredPrompter declines inline and records the path so the question can be
// asked after the TUI program has released the terminal
type deferredPrompter struct {
	pending []string
}

func (p *deferredPrompter) ConfirmResolved(path string) (bool, error) {
	p.pending = append(p.pending, path)
	return false, nil
}
