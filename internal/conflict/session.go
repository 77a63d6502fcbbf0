package conflict

import (
	"context"
	"fmt"

	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

// StageReader retrieves the content of a path at one pre-merge stage.
// An absent stage yields nil content and no error.
type StageReader interface {
	ReadStage(ctx context.Context, path string, side Side) ([]byte, error)
}

// Stager marks a fully resolved path as staged.
type Stager interface {
	StageFile(ctx context.Context, path string) error
}

// Prompter asks the user whether a fully resolved file should be staged.
type Prompter interface {
	ConfirmResolved(path string) (bool, error)
}

// Versions holds the three reference versions fetched once at session open.
// An empty slice means that side has no content for this conflict.
type Versions struct {
	Local  []string
	Base   []string
	Remote []string
}

// State is the resolution state of an open session's file.
type State int

const (
	// StateHasConflicts means the file still has one or more hunks
	StateHasConflicts State = iota
	// StateAllResolved means the file has zero hunks and the prompt has not fired yet
	StateAllResolved
	// StatePromptShown means the resolved prompt already fired for this zero-hunk run
	StatePromptShown
)

// Engine coordinates resolution sessions against injected collaborators.
// At most one session is active at a time; opening a new path runs the full
// close sequence on the previous session first.
type Engine struct {
	reader   StageReader
	stager   Stager
	prompter Prompter
	active   *Session
}

// NewEngine creates an engine with the given collaborators.
func NewEngine(reader StageReader, stager Stager, prompter Prompter) *Engine {
	return &Engine{reader: reader, stager: stager, prompter: prompter}
}

// Active returns the currently open session, or nil.
func (e *Engine) Active() *Session {
	return e.active
}

// Open starts a resolution session on path. The previous session, if any, is
// closed first. A file with binary content or no conflict markers refuses to
// open and no session is started.
func (e *Engine) Open(ctx context.Context, path string) (*Session, error) {
	if e.active != nil {
		if err := e.active.Close(ctx); err != nil {
			return nil, fmt.Errorf("failed to close previous session on %s: %w", e.active.path, err)
		}
		e.active = nil
	}

	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	hunks := ParseMarkers(lines)
	if len(hunks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, mergeiterrors.ErrNoConflicts)
	}

	versions, err := e.readVersions(ctx, path)
	if err != nil {
		return nil, err
	}

	e.active = &Session{
		reader:   e.reader,
		stager:   e.stager,
		prompter: e.prompter,
		path:     path,
		versions: versions,
		hunks:    hunks,
		selected: 1,
		buffer:   lines,
	}
	return e.active, nil
}

// readVersions fetches the three reference versions of path. Missing stages
// come back empty; binary content aborts the open.
func (e *Engine) readVersions(ctx context.Context, path string) (Versions, error) {
	var versions Versions
	for _, side := range []Side{SideLocal, SideBase, SideRemote} {
		data, err := e.reader.ReadStage(ctx, path, side)
		if err != nil {
			return Versions{}, fmt.Errorf("failed to fetch %s version: %w", side, err)
		}
		lines := SplitLines(string(data))
		switch side {
		case SideLocal:
			versions.Local = lines
		case SideBase:
			versions.Base = lines
		case SideRemote:
			versions.Remote = lines
		}
	}
	return versions, nil
}

// Session is an open resolution session on a single conflicted file. It owns
// the current hunk list and the editable buffer, and re-derives both from disk
// after every mutation. Sessions are not safe for concurrent use; all
// operations are expected to be issued sequentially.
type Session struct {
	reader   StageReader
	stager   Stager
	prompter Prompter

	path     string
	versions Versions
	hunks    []Hunk
	selected int // 1-based index into hunks, 0 when none remain
	buffer   []string

	resolvedPromptShown bool
	closed              bool
}

// Path returns the file being resolved.
func (s *Session) Path() string { return s.path }

// Versions returns the reference versions fetched at open.
func (s *Session) Versions() Versions { return s.versions }

// Version returns one side's reference lines, or ErrVersionUnavailable when
// that side has no content for this conflict (e.g. no common ancestor in an
// add/add conflict).
func (s *Session) Version(side Side) ([]string, error) {
	var lines []string
	switch side {
	case SideLocal:
		lines = s.versions.Local
	case SideBase:
		lines = s.versions.Base
	case SideRemote:
		lines = s.versions.Remote
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s version of %s: %w", side, s.path, mergeiterrors.ErrVersionUnavailable)
	}
	return lines, nil
}

// Hunks returns the hunk list for the current on-disk state.
func (s *Session) Hunks() []Hunk { return s.hunks }

// Buffer returns the editable pane content.
func (s *Session) Buffer() []string { return s.buffer }

// State reports where the session is in the resolution state machine.
func (s *Session) State() State {
	if len(s.hunks) > 0 {
		return StateHasConflicts
	}
	if s.resolvedPromptShown {
		return StatePromptShown
	}
	return StateAllResolved
}

// CurrentHunk returns the selected hunk, or false when none remain.
func (s *Session) CurrentHunk() (Hunk, bool) {
	if s.selected < 1 || s.selected > len(s.hunks) {
		return Hunk{}, false
	}
	return s.hunks[s.selected-1], true
}

// CurrentHunkText returns the selected hunk's full marker block from the
// buffer, for prefill of a manual edit.
func (s *Session) CurrentHunkText() []string {
	h, ok := s.CurrentHunk()
	if !ok {
		return nil
	}
	return s.buffer[h.StartLine-1 : h.EndLine]
}

// SelectHunk moves the selection to the hunk with the given 1-based index.
// Indices are only valid against the current parse.
func (s *Session) SelectHunk(index int) error {
	if index < 1 || index > len(s.hunks) {
		return mergeiterrors.NewHunkNotFoundError(s.path, index, len(s.hunks))
	}
	s.selected = index
	return nil
}

// JumpToHunk moves the selection by direction (+1 next, -1 previous), wrapping
// at either end, and returns the newly selected hunk.
func (s *Session) JumpToHunk(direction int) (Hunk, error) {
	if len(s.hunks) == 0 {
		return Hunk{}, fmt.Errorf("%s: %w", s.path, mergeiterrors.ErrNoConflicts)
	}
	n := len(s.hunks)
	s.selected = ((s.selected-1+direction)%n+n)%n + 1
	return s.hunks[s.selected-1], nil
}

// UpdateBuffer replaces the editable pane content. The change reaches disk on
// the next flush.
func (s *Session) UpdateBuffer(lines []string) {
	s.buffer = lines
}

// Flush writes the editable buffer to disk verbatim.
func (s *Session) Flush() error {
	return WriteLines(s.path, s.buffer)
}

// Reload reads the file fresh, re-parses the hunk list and updates the
// resolution state. This is the only path by which the hunk list changes.
func (s *Session) Reload(ctx context.Context) error {
	lines, err := ReadLines(s.path)
	if err != nil {
		return err
	}
	s.buffer = lines
	s.hunks = ParseMarkers(lines)

	if len(s.hunks) == 0 {
		return s.offerResolved(ctx)
	}

	// Conflicts present (or reintroduced by a manual edit): the prompt may
	// fire again on the next zero-hunk transition.
	s.resolvedPromptShown = false
	if s.selected > len(s.hunks) {
		s.selected = len(s.hunks)
	}
	if s.selected < 1 {
		s.selected = 1
	}
	return nil
}

// offerResolved fires the "mark resolved?" prompt at most once per zero-hunk
// transition. A "no" answer still counts as shown.
func (s *Session) offerResolved(ctx context.Context) error {
	if s.resolvedPromptShown {
		return nil
	}
	s.resolvedPromptShown = true

	ok, err := s.prompter.ConfirmResolved(s.path)
	if err != nil {
		return fmt.Errorf("failed to confirm resolution of %s: %w", s.path, err)
	}
	if !ok {
		return nil
	}
	if err := s.stager.StageFile(ctx, s.path); err != nil {
		return fmt.Errorf("failed to mark %s resolved: %w", s.path, err)
	}
	return nil
}

// ResolveCurrent resolves the selected hunk from the chosen side.
func (s *Session) ResolveCurrent(ctx context.Context, side Side) error {
	return s.mutate(ctx, func() error {
		return ResolveHunk(s.path, s.selected, side)
	})
}

// ResolveCurrentManual replaces the selected hunk with replacement verbatim.
func (s *Session) ResolveCurrentManual(ctx context.Context, replacement []string) error {
	return s.mutate(ctx, func() error {
		return ResolveHunkManual(s.path, s.selected, replacement)
	})
}

// ResolveAllFrom resolves every remaining hunk from one side.
func (s *Session) ResolveAllFrom(ctx context.Context, side Side) error {
	return s.mutate(ctx, func() error {
		return ResolveAll(s.path, side)
	})
}

// mutate runs one resolver mutation between a flush of pending edits and a
// reload of the resulting state. Operations are strictly sequential: the
// mutation completes before the reload begins.
func (s *Session) mutate(ctx context.Context, op func() error) error {
	if s.closed {
		return mergeiterrors.ErrNoActiveSession
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// Refresh flushes pending edits and re-synchronizes from disk.
func (s *Session) Refresh(ctx context.Context) error {
	if s.closed {
		return mergeiterrors.ErrNoActiveSession
	}
	if err := s.Flush(); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// Close runs the full close sequence: flush pending edits, recompute the hunk
// list and offer the resolved prompt if the file ended up clean. Closing twice
// is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.Reload(ctx); err != nil {
		return err
	}
	s.closed = true
	return nil
}
