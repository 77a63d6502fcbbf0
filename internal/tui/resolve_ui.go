package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mergeit.dev/mergeit/internal/conflict"
)

// ResolveOutcome reports why the resolve UI exited
type ResolveOutcome int

const (
	// OutcomeQuit means the user closed the session
	OutcomeQuit ResolveOutcome = iota
	// OutcomeResolved means the file reached zero hunks
	OutcomeResolved
	// OutcomeEditRequested means the user asked to edit the current hunk manually
	OutcomeEditRequested
)

// ResolveModel is the bubbletea model for the interactive resolve view: three
// read-only reference panes over one editable file pane.
type ResolveModel struct {
	session *conflict.Session

	localPane  viewport.Model
	basePane   viewport.Model
	remotePane viewport.Model
	filePane   viewport.Model

	width  int
	height int
	ready  bool

	outcome ResolveOutcome
	err     error

	styles resolveStyles
}

type resolveStyles struct {
	pane       lipgloss.Style
	paneTitle  lipgloss.Style
	marker     lipgloss.Style
	hunkActive lipgloss.Style
	help       lipgloss.Style
	status     lipgloss.Style
}

func newResolveStyles() resolveStyles {
	return resolveStyles{
		pane:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
		paneTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		marker:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		hunkActive: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		help:       lipgloss.NewStyle().Faint(true),
		status:     lipgloss.NewStyle().Bold(true),
	}
}

// NewResolveModel creates the resolve view for an open session
func NewResolveModel(session *conflict.Session) ResolveModel {
	return ResolveModel{
		session: session,
		styles:  newResolveStyles(),
	}
}

// Outcome returns why the UI exited
func (m ResolveModel) Outcome() ResolveOutcome { return m.outcome }

// Err returns the error that stopped the UI, if any
func (m ResolveModel) Err() error { return m.err }

func (m ResolveModel) Init() tea.Cmd {
	return nil
}

func (m ResolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ResolveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.outcome = OutcomeQuit
		return m, tea.Quit

	case "n", "right", "tab":
		_, m.err = m.session.JumpToHunk(1)
		m.refreshContent()
		return m, nil

	case "p", "left", "shift+tab":
		_, m.err = m.session.JumpToHunk(-1)
		m.refreshContent()
		return m, nil

	case "l":
		return m.applyResolve(func() error { return m.session.ResolveCurrent(ctx, conflict.SideLocal) })
	case "b":
		return m.applyResolve(func() error { return m.session.ResolveCurrent(ctx, conflict.SideBase) })
	case "r":
		return m.applyResolve(func() error { return m.session.ResolveCurrent(ctx, conflict.SideRemote) })

	case "L":
		return m.applyResolve(func() error { return m.session.ResolveAllFrom(ctx, conflict.SideLocal) })
	case "B":
		return m.applyResolve(func() error { return m.session.ResolveAllFrom(ctx, conflict.SideBase) })
	case "R":
		return m.applyResolve(func() error { return m.session.ResolveAllFrom(ctx, conflict.SideRemote) })

	case "e":
		m.outcome = OutcomeEditRequested
		return m, tea.Quit

	case "g":
		if err := m.session.Refresh(ctx); err != nil {
			m.err = err
		}
		m.refreshContent()
		if m.session.State() != conflict.StateHasConflicts {
			m.outcome = OutcomeResolved
			return m, tea.Quit
		}
		return m, nil

	case "j", "down":
		m.filePane.ScrollDown(1)
		return m, nil
	case "k", "up":
		m.filePane.ScrollUp(1)
		return m, nil
	}
	return m, nil
}

// applyResolve runs one resolver mutation and quits once nothing is left
func (m ResolveModel) applyResolve(op func() error) (tea.Model, tea.Cmd) {
	if err := op(); err != nil {
		m.err = err
		return m, nil
	}
	m.refreshContent()
	if m.session.State() != conflict.StateHasConflicts {
		m.outcome = OutcomeResolved
		return m, tea.Quit
	}
	return m, nil
}

func (m *ResolveModel) layout() {
	paneWidth := (m.width - 6) / 3
	refHeight := (m.height - 4) / 2
	fileHeight := m.height - refHeight - 6

	m.localPane = viewport.New(paneWidth, refHeight)
	m.basePane = viewport.New(paneWidth, refHeight)
	m.remotePane = viewport.New(paneWidth, refHeight)
	m.filePane = viewport.New(m.width-2, fileHeight)

	m.refreshContent()
}

// refreshContent repaints all four panes from the session
func (m *ResolveModel) refreshContent() {
	m.localPane.SetContent(m.renderVersion(conflict.SideLocal))
	m.basePane.SetContent(m.renderVersion(conflict.SideBase))
	m.remotePane.SetContent(m.renderVersion(conflict.SideRemote))

	m.filePane.SetContent(m.renderFile())
	if h, ok := m.session.CurrentHunk(); ok {
		m.filePane.SetYOffset(h.StartLine - 1)
	}
}

func (m *ResolveModel) renderVersion(side conflict.Side) string {
	lines, err := m.session.Version(side)
	if err != nil {
		return "(version unavailable)"
	}
	return strings.Join(lines, "\n")
}

// renderFile paints the editable pane, highlighting the selected hunk
func (m *ResolveModel) renderFile() string {
	var b strings.Builder
	current, hasCurrent := m.session.CurrentHunk()

	for i, line := range m.session.Buffer() {
		num := i + 1
		rendered := line
		switch {
		case hasCurrent && num >= current.StartLine && num <= current.EndLine:
			rendered = m.styles.hunkActive.Render(line)
		case isMarkerLine(line):
			rendered = m.styles.marker.Render(line)
		}
		b.WriteString(rendered)
		b.WriteString("\n")
	}
	return b.String()
}

func isMarkerLine(line string) bool {
	for _, marker := range []string{"<<<<<<<", "|||||||", "=======", ">>>>>>>"} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

func (m ResolveModel) View() string {
	if !m.ready {
		return "loading..."
	}

	refs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.pane.Render(m.styles.paneTitle.Render("LOCAL")+"\n"+m.localPane.View()),
		m.styles.pane.Render(m.styles.paneTitle.Render("BASE")+"\n"+m.basePane.View()),
		m.styles.pane.Render(m.styles.paneTitle.Render("REMOTE")+"\n"+m.remotePane.View()),
	)

	status := fmt.Sprintf("%s — %d conflict(s)", m.session.Path(), len(m.session.Hunks()))
	if h, ok := m.session.CurrentHunk(); ok {
		status += fmt.Sprintf(", at hunk %d (lines %d-%d)", h.Index, h.StartLine, h.EndLine)
	}
	if m.err != nil {
		status += "  " + m.styles.marker.Render(m.err.Error())
	}

	help := "l/b/r resolve hunk · L/B/R resolve all · e edit · n/p jump · g refresh · q quit"

	return lipgloss.JoinVertical(lipgloss.Left,
		refs,
		m.styles.pane.Render(m.filePane.View()),
		m.styles.status.Render(status),
		m.styles.help.Render(help),
	)
}

// RunResolveUI runs the interactive resolve view and returns its outcome
func RunResolveUI(session *conflict.Session) (ResolveOutcome, error) {
	m := NewResolveModel(session)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return OutcomeQuit, err
	}
	if fm, ok := final.(ResolveModel); ok {
		return fm.Outcome(), fm.Err()
	}
	return OutcomeQuit, fmt.Errorf("unexpected model type")
}
