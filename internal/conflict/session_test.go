package conflict_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"mergeit.dev/mergeit/internal/conflict"
	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

type fakeReader struct {
	byStage map[conflict.Side]string
	err     error
}

func (f *fakeReader) ReadStage(_ context.Context, _ string, side conflict.Side) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.byStage[side]), nil
}

type fakeStager struct {
	staged []string
	err    error
}

func (f *fakeStager) StageFile(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.staged = append(f.staged, path)
	return nil
}

type fakePrompter struct {
	answer bool
	err    error
	calls  int
}

func (f *fakePrompter) ConfirmResolved(string) (bool, error) {
	f.calls++
	return f.answer, f.err
}

type sessionFixture struct {
	engine   *conflict.Engine
	reader   *fakeReader
	stager   *fakeStager
	prompter *fakePrompter
}

func newSessionFixture() *sessionFixture {
	reader := &fakeReader{byStage: map[conflict.Side]string{
		conflict.SideLocal:  "A\n",
		conflict.SideBase:   "O\n",
		conflict.SideRemote: "B\n",
	}}
	stager := &fakeStager{}
	prompter := &fakePrompter{answer: true}
	return &sessionFixture{
		engine:   conflict.NewEngine(reader, stager, prompter),
		reader:   reader,
		stager:   stager,
		prompter: prompter,
	}
}

func singleConflictFile(t *testing.T) string {
	t.Helper()
	return writeConflictFile(t, []string{
		"<<<<<<< HEAD",
		"A",
		"=======",
		"B",
		">>>>>>> branch",
	})
}

func TestEngineOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session on a conflicted file", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.Same(t, session, f.engine.Active())

		require.Equal(t, path, session.Path())
		require.Len(t, session.Hunks(), 1)
		require.Equal(t, conflict.StateHasConflicts, session.State())

		h, ok := session.CurrentHunk()
		require.True(t, ok)
		require.Equal(t, 1, h.Index)

		require.Equal(t, []string{"A"}, session.Versions().Local)
		require.Equal(t, []string{"O"}, session.Versions().Base)
		require.Equal(t, []string{"B"}, session.Versions().Remote)
	})

	t.Run("a missing stage yields an empty version", func(t *testing.T) {
		f := newSessionFixture()
		delete(f.reader.byStage, conflict.SideBase)
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.Empty(t, session.Versions().Base)
		require.Equal(t, []string{"A"}, session.Versions().Local)

		_, err = session.Version(conflict.SideBase)
		require.ErrorIs(t, err, mergeiterrors.ErrVersionUnavailable)

		local, err := session.Version(conflict.SideLocal)
		require.NoError(t, err)
		require.Equal(t, []string{"A"}, local)
	})

	t.Run("refuses a file without markers", func(t *testing.T) {
		f := newSessionFixture()
		path := writeConflictFile(t, []string{"clean"})

		_, err := f.engine.Open(ctx, path)
		require.ErrorIs(t, err, mergeiterrors.ErrNoConflicts)
		require.Nil(t, f.engine.Active())
	})

	t.Run("refuses binary content", func(t *testing.T) {
		f := newSessionFixture()
		path := filepath.Join(t.TempDir(), "blob.bin")
		require.NoError(t, os.WriteFile(path, []byte("a\x00b"), 0o644))

		_, err := f.engine.Open(ctx, path)
		require.ErrorIs(t, err, mergeiterrors.ErrBinaryContent)
		require.Nil(t, f.engine.Active())
	})

	t.Run("a stage read failure aborts the open", func(t *testing.T) {
		f := newSessionFixture()
		f.reader.err = errors.New("object store unavailable")
		path := singleConflictFile(t)

		_, err := f.engine.Open(ctx, path)
		require.ErrorContains(t, err, "object store unavailable")
		require.Nil(t, f.engine.Active())
	})

	t.Run("closes the previous session first", func(t *testing.T) {
		f := newSessionFixture()
		first := singleConflictFile(t)
		second := singleConflictFile(t)

		prev, err := f.engine.Open(ctx, first)
		require.NoError(t, err)

		session, err := f.engine.Open(ctx, second)
		require.NoError(t, err)
		require.Same(t, session, f.engine.Active())

		// The closed session refuses further mutations.
		err = prev.ResolveCurrent(ctx, conflict.SideLocal)
		require.ErrorIs(t, err, mergeiterrors.ErrNoActiveSession)
	})
}

func TestSessionResolveCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("resolving the last hunk fires the prompt and stages", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideLocal))

		require.Equal(t, []string{"A"}, readFileLines(t, path))
		require.Empty(t, session.Hunks())
		require.Equal(t, conflict.StatePromptShown, session.State())
		require.Equal(t, 1, f.prompter.calls)
		require.Equal(t, []string{path}, f.stager.staged)
	})

	t.Run("a declined prompt skips staging but still counts as shown", func(t *testing.T) {
		f := newSessionFixture()
		f.prompter.answer = false
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideLocal))
		require.Equal(t, conflict.StatePromptShown, session.State())
		require.Empty(t, f.stager.staged)

		// Refreshing on the same zero-hunk run must not re-ask.
		require.NoError(t, session.Refresh(ctx))
		require.Equal(t, 1, f.prompter.calls)
	})

	t.Run("resolving one of several hunks keeps the session open", func(t *testing.T) {
		f := newSessionFixture()
		path := writeConflictFile(t, []string{
			"<<<<<<< HEAD", "a1", "=======", "a2", ">>>>>>> b",
			"<<<<<<< HEAD", "b1", "=======", "b2", ">>>>>>> b",
		})

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.Len(t, session.Hunks(), 2)

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideRemote))
		require.Len(t, session.Hunks(), 1)
		require.Equal(t, conflict.StateHasConflicts, session.State())
		require.Zero(t, f.prompter.calls)

		h, ok := session.CurrentHunk()
		require.True(t, ok)
		require.Equal(t, []string{"b1"}, h.Local)
	})

	t.Run("selection clamps when the tail hunk disappears", func(t *testing.T) {
		f := newSessionFixture()
		path := writeConflictFile(t, []string{
			"<<<<<<< HEAD", "a1", "=======", "a2", ">>>>>>> b",
			"<<<<<<< HEAD", "b1", "=======", "b2", ">>>>>>> b",
		})

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.NoError(t, session.SelectHunk(2))

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideLocal))

		h, ok := session.CurrentHunk()
		require.True(t, ok)
		require.Equal(t, 1, h.Index)
		require.Equal(t, []string{"a1"}, h.Local)
	})
}

func TestSessionResolveAllFrom(t *testing.T) {
	ctx := context.Background()

	f := newSessionFixture()
	path := writeConflictFile(t, []string{
		"top",
		"<<<<<<< HEAD", "a1", "=======", "a2", ">>>>>>> b",
		"<<<<<<< HEAD", "b1", "=======", "b2", ">>>>>>> b",
		"bottom",
	})

	session, err := f.engine.Open(ctx, path)
	require.NoError(t, err)

	require.NoError(t, session.ResolveAllFrom(ctx, conflict.SideRemote))

	require.Equal(t, []string{"top", "a2", "b2", "bottom"}, readFileLines(t, path))
	require.Equal(t, conflict.StatePromptShown, session.State())
	require.Equal(t, 1, f.prompter.calls)
	require.Equal(t, []string{path}, f.stager.staged)
}

func TestSessionManualEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("manual replacement resolves the hunk", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.Equal(t, []string{
			"<<<<<<< HEAD", "A", "=======", "B", ">>>>>>> branch",
		}, session.CurrentHunkText())

		require.NoError(t, session.ResolveCurrentManual(ctx, []string{"A+B"}))
		require.Equal(t, []string{"A+B"}, readFileLines(t, path))
		require.Equal(t, 1, f.prompter.calls)
	})

	t.Run("reintroduced markers re-arm the prompt", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideLocal))
		require.Equal(t, 1, f.prompter.calls)

		// An edit that brings markers back puts the file in conflict again.
		session.UpdateBuffer([]string{
			"<<<<<<< HEAD", "A2", "=======", "B2", ">>>>>>> branch",
		})
		require.NoError(t, session.Refresh(ctx))
		require.Equal(t, conflict.StateHasConflicts, session.State())

		require.NoError(t, session.ResolveCurrent(ctx, conflict.SideRemote))
		require.Equal(t, 2, f.prompter.calls, "prompt fires once per zero-hunk transition")
		require.Equal(t, []string{"B2"}, readFileLines(t, path))
	})
}

func TestSessionNavigation(t *testing.T) {
	ctx := context.Background()

	f := newSessionFixture()
	path := writeConflictFile(t, []string{
		"<<<<<<< HEAD", "a1", "=======", "a2", ">>>>>>> b",
		"<<<<<<< HEAD", "b1", "=======", "b2", ">>>>>>> b",
		"<<<<<<< HEAD", "c1", "=======", "c2", ">>>>>>> b",
	})

	session, err := f.engine.Open(ctx, path)
	require.NoError(t, err)

	h, err := session.JumpToHunk(1)
	require.NoError(t, err)
	require.Equal(t, 2, h.Index)

	h, err = session.JumpToHunk(1)
	require.NoError(t, err)
	require.Equal(t, 3, h.Index)

	// Wraps forward past the end and backward past the start.
	h, err = session.JumpToHunk(1)
	require.NoError(t, err)
	require.Equal(t, 1, h.Index)

	h, err = session.JumpToHunk(-1)
	require.NoError(t, err)
	require.Equal(t, 3, h.Index)

	require.NoError(t, session.SelectHunk(2))
	h, ok := session.CurrentHunk()
	require.True(t, ok)
	require.Equal(t, []string{"b1"}, h.Local)

	err = session.SelectHunk(4)
	require.ErrorIs(t, err, mergeiterrors.ErrHunkNotFound)
	var notFound *mergeiterrors.HunkNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, 4, notFound.Index)
	require.Equal(t, 3, notFound.Count)
}

func TestSessionRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("picks up external edits", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		// An edit resolves the file; refresh flushes it and re-parses.
		session.UpdateBuffer([]string{"resolved elsewhere"})
		require.NoError(t, session.Refresh(ctx))

		require.Empty(t, session.Hunks())
		require.Equal(t, conflict.StatePromptShown, session.State())
		require.Equal(t, []string{path}, f.stager.staged)
	})

	t.Run("a no-op refresh changes nothing", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		require.NoError(t, session.Refresh(ctx))
		require.Len(t, session.Hunks(), 1)
		require.Zero(t, f.prompter.calls)
	})
}

func TestSessionClose(t *testing.T) {
	ctx := context.Background()

	t.Run("flushes pending edits and offers the prompt", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		session.UpdateBuffer([]string{"done"})
		require.NoError(t, session.Close(ctx))

		require.Equal(t, []string{"done"}, readFileLines(t, path))
		require.Equal(t, 1, f.prompter.calls)
		require.Equal(t, []string{path}, f.stager.staged)
	})

	t.Run("closing twice is a no-op", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		require.NoError(t, session.Close(ctx))
		require.NoError(t, session.Close(ctx))
		require.Equal(t, 1, f.prompter.calls)
	})

	t.Run("mutations after close fail", func(t *testing.T) {
		f := newSessionFixture()
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)
		require.NoError(t, session.Close(ctx))

		require.ErrorIs(t, session.ResolveCurrent(ctx, conflict.SideLocal), mergeiterrors.ErrNoActiveSession)
		require.ErrorIs(t, session.Refresh(ctx), mergeiterrors.ErrNoActiveSession)
	})

	t.Run("a stager failure surfaces from close", func(t *testing.T) {
		f := newSessionFixture()
		f.stager.err = errors.New("index locked")
		path := singleConflictFile(t)

		session, err := f.engine.Open(ctx, path)
		require.NoError(t, err)

		session.UpdateBuffer([]string{"done"})
		require.ErrorContains(t, session.Close(ctx), "index locked")
	})
}
