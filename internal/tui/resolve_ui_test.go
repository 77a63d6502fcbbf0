package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"mergeit.dev/mergeit/internal/conflict"
)

func init() {
	// Deterministic rendering regardless of the terminal running the tests.
	lipgloss.SetColorProfile(termenv.Ascii)
}

type stubReader struct{}

func (stubReader) ReadStage(_ context.Context, _ string, side conflict.Side) ([]byte, error) {
	switch side {
	case conflict.SideLocal:
		return []byte("local line\n"), nil
	case conflict.SideRemote:
		return []byte("remote line\n"), nil
	}
	return nil, nil
}

type stubStager struct{ staged []string }

func (s *stubStager) StageFile(_ context.Context, path string) error {
	s.staged = append(s.staged, path)
	return nil
}

type stubPrompter struct{ answer bool }

func (p stubPrompter) ConfirmResolved(string) (bool, error) { return p.answer, nil }

func openTestSession(t *testing.T) *conflict.Session {
	t.Helper()

	path := filepath.Join(t.TempDir(), "conflicted.txt")
	require.NoError(t, conflict.WriteLines(path, []string{
		"context before",
		"<<<<<<< HEAD",
		"local line",
		"=======",
		"remote line",
		">>>>>>> feature",
		"context after",
	}))

	engine := conflict.NewEngine(stubReader{}, &stubStager{}, stubPrompter{})
	session, err := engine.Open(context.Background(), path)
	require.NoError(t, err)
	return session
}

func sizedModel(t *testing.T, session *conflict.Session) ResolveModel {
	t.Helper()
	m := NewResolveModel(session)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(ResolveModel)
}

func pressKey(t *testing.T, m ResolveModel, key rune) (ResolveModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
	return updated.(ResolveModel), cmd
}

func TestResolveModelView(t *testing.T) {
	session := openTestSession(t)
	m := sizedModel(t, session)

	view := m.View()
	require.Contains(t, view, "LOCAL")
	require.Contains(t, view, "BASE")
	require.Contains(t, view, "REMOTE")
	require.Contains(t, view, "1 conflict(s)")
	require.Contains(t, view, "at hunk 1 (lines 2-6)")

	// The base stage is absent, so its pane shows the placeholder.
	require.Contains(t, view, "(version unavailable)")
}

func TestResolveModelViewBeforeSizing(t *testing.T) {
	session := openTestSession(t)
	m := NewResolveModel(session)
	require.Equal(t, "loading...", m.View())
}

func TestResolveModelKeys(t *testing.T) {
	t.Run("q quits without resolving", func(t *testing.T) {
		session := openTestSession(t)
		m := sizedModel(t, session)

		m, cmd := pressKey(t, m, 'q')
		require.NotNil(t, cmd)
		require.Equal(t, OutcomeQuit, m.Outcome())
		require.Len(t, session.Hunks(), 1)
	})

	t.Run("r resolves from remote and quits when done", func(t *testing.T) {
		session := openTestSession(t)
		m := sizedModel(t, session)

		m, cmd := pressKey(t, m, 'r')
		require.NotNil(t, cmd, "the last hunk is gone, the UI should quit")
		require.Equal(t, OutcomeResolved, m.Outcome())
		require.NoError(t, m.Err())
		require.Equal(t, []string{"context before", "remote line", "context after"}, session.Buffer())
	})

	t.Run("e requests a manual edit", func(t *testing.T) {
		session := openTestSession(t)
		m := sizedModel(t, session)

		m, cmd := pressKey(t, m, 'e')
		require.NotNil(t, cmd)
		require.Equal(t, OutcomeEditRequested, m.Outcome())
	})

	t.Run("n wraps around a single hunk", func(t *testing.T) {
		session := openTestSession(t)
		m := sizedModel(t, session)

		m, _ = pressKey(t, m, 'n')
		require.NoError(t, m.Err())
		h, ok := session.CurrentHunk()
		require.True(t, ok)
		require.Equal(t, 1, h.Index)
	})

	t.Run("g refreshes and stays open while conflicts remain", func(t *testing.T) {
		session := openTestSession(t)
		m := sizedModel(t, session)

		m, cmd := pressKey(t, m, 'g')
		require.Nil(t, cmd)
		require.Equal(t, OutcomeQuit, m.Outcome())
		require.Len(t, session.Hunks(), 1)
	})
}

func TestIsMarkerLine(t *testing.T) {
	require.True(t, isMarkerLine("<<<<<<< HEAD"))
	require.True(t, isMarkerLine("||||||| merged common ancestors"))
	require.True(t, isMarkerLine("======="))
	require.True(t, isMarkerLine(">>>>>>> feature"))
	require.False(t, isMarkerLine("plain text"))
	require.False(t, isMarkerLine(" <<<<<<< indented is content"))
}

func TestRenderVersion(t *testing.T) {
	session := openTestSession(t)
	m := NewResolveModel(session)

	require.Equal(t, "local line", m.renderVersion(conflict.SideLocal))
	require.Equal(t, "remote line", m.renderVersion(conflict.SideRemote))
	require.Equal(t, "(version unavailable)", m.renderVersion(conflict.SideBase))
}
