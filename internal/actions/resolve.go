// Package actions implements the user-facing flows behind the CLI commands.
package actions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mergeit.dev/mergeit/internal/config"
	"mergeit.dev/mergeit/internal/conflict"
	mergeiterrors "mergeit.dev/mergeit/internal/errors"
	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/internal/tui"
	"mergeit.dev/mergeit/internal/utils"
)

// ResolveOptions configures the resolve flow
type ResolveOptions struct {
	Path     string // file to resolve; empty means pick among unmerged files
	Side     string // "local", "base" or "remote" for non-interactive resolve-all
	Hunk     int    // 1-based hunk index for a manual resolution
	Manual   bool   // read the replacement text for --hunk from stdin
	Stage    bool   // stage a fully resolved file without prompting
	Runner   git.Runner
	Splog    *tui.Splog
	RepoRoot string
}

// ResolveAction resolves conflicts in one file, either non-interactively from
// one side, manually for a single hunk, or through the interactive UI.
func ResolveAction(ctx context.Context, opts ResolveOptions) error {
	path, err := pickFile(ctx, opts)
	if err != nil {
		return err
	}

	autoStage := opts.Stage
	if !autoStage {
		autoStage, err = config.GetAutoStage(opts.RepoRoot)
		if err != nil {
			return err
		}
	}

	side := opts.Side
	if side == "" && opts.Hunk == 0 && !tui.IsTTY() {
		// No terminal and no explicit side: fall back to the configured one
		side, err = config.GetDefaultSide(opts.RepoRoot)
		if err != nil {
			return err
		}
		if side == "" {
			return fmt.Errorf("no terminal available; pass --local, --base or --remote")
		}
	}

	switch {
	case opts.Manual:
		return resolveManual(ctx, path, opts, autoStage)
	case side != "":
		return resolveAllFromSide(ctx, path, side, opts, autoStage)
	default:
		return resolveInteractive(ctx, path, opts, autoStage)
	}
}

// pickFile chooses the file to work on: the argument if given, the single
// unmerged file if there is exactly one, otherwise a selection prompt.
// The result is absolute so disk and index operations agree on the target.
func pickFile(ctx context.Context, opts ResolveOptions) (string, error) {
	if opts.Path != "" {
		return filepath.Abs(opts.Path)
	}

	files, err := opts.Runner.UnmergedFiles(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no unmerged files; nothing to resolve")
	}

	// git reports paths relative to the repo root
	if len(files) == 1 {
		return filepath.Join(opts.RepoRoot, files[0]), nil
	}
	selected, err := promptSelectFile(files)
	if err != nil {
		return "", err
	}
	return filepath.Join(opts.RepoRoot, selected), nil
}

func parseSide(name string) (conflict.Side, error) {
	switch strings.ToLower(name) {
	case "local", "ours":
		return conflict.SideLocal, nil
	case "base", "ancestor":
		return conflict.SideBase, nil
	case "remote", "theirs":
		return conflict.SideRemote, nil
	}
	return conflict.SideLocal, fmt.Errorf("unknown side %q (expected local, base or remote)", name)
}

// newEngine builds the resolution engine around the injected git runner
func newEngine(opts ResolveOptions, prompter conflict.Prompter) *conflict.Engine {
	return conflict.NewEngine(
		gitStageReader{runner: opts.Runner, repoRoot: opts.RepoRoot},
		gitStager{runner: opts.Runner, repoRoot: opts.RepoRoot},
		prompter,
	)
}

// resolveAllFromSide resolves every hunk in path from one side without a UI
func resolveAllFromSide(ctx context.Context, path, sideName string, opts ResolveOptions, autoStage bool) error {
	side, err := parseSide(sideName)
	if err != nil {
		return err
	}

	var prompter conflict.Prompter = confirmPrompter{}
	if autoStage {
		prompter = autoPrompter{}
	}

	engine := newEngine(opts, prompter)
	session, err := engine.Open(ctx, path)
	if err != nil {
		if errors.Is(err, mergeiterrors.ErrNoConflicts) {
			opts.Splog.Info("%s has no conflict markers", path)
			return nil
		}
		return err
	}

	count := len(session.Hunks())
	if err := session.ResolveAllFrom(ctx, side); err != nil {
		return err
	}
	opts.Splog.Info("Resolved %d conflict(s) in %s from %s", count, path, side)
	return session.Close(ctx)
}

// resolveManual replaces one hunk with replacement text read from stdin
func resolveManual(ctx context.Context, path string, opts ResolveOptions, autoStage bool) error {
	if opts.Hunk < 1 {
		return fmt.Errorf("--manual requires --hunk")
	}

	text, err := utils.ReadFromStdin()
	if err != nil {
		return fmt.Errorf("failed to read replacement text: %w", err)
	}

	var prompter conflict.Prompter = confirmPrompter{}
	if autoStage {
		prompter = autoPrompter{}
	}

	engine := newEngine(opts, prompter)
	session, err := engine.Open(ctx, path)
	if err != nil {
		return err
	}
	if err := session.SelectHunk(opts.Hunk); err != nil {
		return err
	}
	if err := session.ResolveCurrentManual(ctx, conflict.SplitLines(text)); err != nil {
		return err
	}

	remaining := len(session.Hunks())
	if remaining > 0 {
		opts.Splog.Info("Resolved hunk %d of %s, %d conflict(s) remaining", opts.Hunk, path, remaining)
	} else {
		opts.Splog.Info("Resolved the last conflict in %s", path)
	}
	return session.Close(ctx)
}

// resolveInteractive drives the four-pane UI, handing manual edits to the
// user's editor between UI runs and asking the resolved question once the
// terminal is back in cooked mode.
func resolveInteractive(ctx context.Context, path string, opts ResolveOptions, autoStage bool) error {
	prompter := &deferredPrompter{}
	engine := newEngine(opts, prompter)

	session, err := engine.Open(ctx, path)
	if err != nil {
		if errors.Is(err, mergeiterrors.ErrNoConflicts) {
			opts.Splog.Info("%s has no conflict markers", path)
			return nil
		}
		return err
	}

	editor, err := config.GetEditor(opts.RepoRoot)
	if err != nil {
		return err
	}

	opts.Splog.SetQuiet(true)
	for {
		outcome, err := tui.RunResolveUI(session)
		opts.Splog.SetQuiet(false)
		if err != nil {
			return err
		}

		if outcome == tui.OutcomeEditRequested {
			if err := editCurrentHunk(ctx, session, editor); err != nil {
				return err
			}
			if session.State() == conflict.StateHasConflicts {
				opts.Splog.SetQuiet(true)
				continue
			}
		}
		break
	}

	if err := session.Close(ctx); err != nil {
		return err
	}
	if session.State() == conflict.StateHasConflicts {
		opts.Splog.Tip("Conflicts remain in %s; run mergeit resolve again to continue", path)
	}
	return drainResolvedPrompts(ctx, prompter, opts, autoStage)
}

// editCurrentHunk opens the selected hunk's marker block in the editor and
// applies the result as a manual resolution.
func editCurrentHunk(ctx context.Context, session *conflict.Session, editor string) error {
	block := session.CurrentHunkText()
	if block == nil {
		return mergeiterrors.ErrHunkNotFound
	}

	edited, err := tui.OpenEditor(strings.Join(block, "\n")+"\n", "MERGEIT_HUNK-*", editor)
	if err != nil {
		return err
	}
	return session.ResolveCurrentManual(ctx, conflict.SplitLines(edited))
}

// drainResolvedPrompts asks the deferred "mark resolved?" question for every
// zero-hunk transition the UI recorded.
func drainResolvedPrompts(ctx context.Context, prompter *deferredPrompter, opts ResolveOptions, autoStage bool) error {
	for _, path := range prompter.pending {
		stage := autoStage
		if !stage {
			answer, err := promptConfirm(fmt.Sprintf("%s has no remaining conflicts. Mark as resolved?", path), true)
			if err != nil {
				return err
			}
			stage = answer
		}
		if !stage {
			continue
		}
		if err := opts.Runner.StageFile(ctx, path); err != nil {
			return err
		}
		opts.Splog.Info("Staged %s", tui.ColorGreen(path))
	}
	return nil
}
