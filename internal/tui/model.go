package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/editor"
)

// narrowColumns is the terminal width below which the split view collapses.
const narrowColumns = 80

const (
	headerHeight = 1
	footerHeight = 1
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

// SaveFunc persists the document source.
type SaveFunc func(source string) error

// Options configures the terminal editor.
type Options struct {
	Improver     editor.Improver
	Instruction  string
	Save         SaveFunc // nil disables saving
	PreviewStyle string
}

// improveDoneMsg carries the result of an enhancement back to Update.
type improveDoneMsg struct {
	state   editor.State
	changes markvis.Changes
	err     error
}

// savedMsg carries the result of a save.
type savedMsg struct{ err error }

// Model is the bubbletea model of the terminal editor.
type Model struct {
	session *editor.Session
	opts    Options

	input   textarea.Model
	preview viewport.Model

	width  int
	height int
	status string
}

// New creates a terminal editor over session.
func New(session *editor.Session, opts Options) Model {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = "# Start typing..."
	ta.SetValue(session.State().Source)
	ta.Focus()

	return Model{
		session: session,
		opts:    opts,
		input:   ta,
		preview: viewport.New(0, 0),
		status:  "ctrl+s save · ctrl+p mode · ctrl+e improve · ctrl+x clear · ctrl+c quit",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width < narrowColumns {
			m.apply(editor.Action{Type: editor.ActionSetMode, Mode: string(narrowMode(m.session.State().Mode))})
		}
		m.layout()
		return m, nil

	case improveDoneMsg:
		m.input.SetValue(msg.state.Source)
		switch {
		case msg.err != nil && msg.state.Notice != "":
			m.status = msg.state.Notice
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.changes.Unchanged:
			m.status = "no changes suggested"
		default:
			m.status = fmt.Sprintf("improved: +%d -%d", msg.changes.Inserted, msg.changes.Deleted)
		}
		m.refreshPreview()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlQ:
			return m, tea.Quit
		case tea.KeyCtrlP:
			m.apply(editor.Action{Type: editor.ActionSetMode, Mode: string(nextMode(m.session.State().Mode))})
			m.layout()
			return m, nil
		case tea.KeyCtrlX:
			m.apply(editor.Action{Type: editor.ActionClear})
			m.input.SetValue("")
			m.refreshPreview()
			return m, nil
		case tea.KeyCtrlS:
			return m, m.save()
		case tea.KeyCtrlE:
			return m, m.improve()
		}
	}

	if m.session.State().Busy {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.apply(editor.Action{Type: editor.ActionSetSource, Text: after})
		m.refreshPreview()
	}

	var vpCmd tea.Cmd
	m.preview, vpCmd = m.preview.Update(msg)
	return m, tea.Batch(cmd, vpCmd)
}

// View implements tea.Model.
func (m Model) View() string {
	state := m.session.State()

	header := headerStyle.Render(fmt.Sprintf("markvis · %s · %s", state.DocumentName, state.Mode))
	if state.Busy {
		header += footerStyle.Render("  improving…")
	}

	var panes []string
	if state.Mode.ShowsEditor() {
		panes = append(panes, paneStyle.Render(m.input.View()))
	}
	if state.Mode.ShowsPreview() {
		panes = append(panes, paneStyle.Render(m.preview.View()))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	footer := footerStyle.Render(m.status)
	if state.Notice != "" {
		footer = noticeStyle.Render(state.Notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// State returns the session state, for callers that run the program and
// need the final document.
func (m Model) State() editor.State {
	return m.session.State()
}

func (m *Model) apply(a editor.Action) {
	if _, err := m.session.Apply(a); err != nil {
		m.status = err.Error()
	}
}

// layout sizes the panes for the current mode and terminal size.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	state := m.session.State()

	frameW, frameH := paneStyle.GetFrameSize()
	paneH := max(m.height-headerHeight-footerHeight-frameH, 1)
	paneW := m.width - frameW
	if state.Mode == editor.ModeSplit {
		paneW = m.width/2 - frameW
	}
	paneW = max(paneW, 1)

	m.input.SetWidth(paneW)
	m.input.SetHeight(paneH)
	m.preview.Width = paneW
	m.preview.Height = paneH
	m.refreshPreview()
}

func (m *Model) refreshPreview() {
	if m.preview.Width == 0 {
		return
	}
	source := m.session.State().Source
	if strings.TrimSpace(source) == "" {
		source = markvis.PlaceholderMarkdown
	}
	out, err := RenderMarkdown(source, m.preview.Width, m.opts.PreviewStyle)
	if err != nil {
		out = source
	}
	m.preview.SetContent(out)
}

func (m *Model) save() tea.Cmd {
	if m.opts.Save == nil {
		m.status = "saving is not available"
		return nil
	}
	source := m.session.State().Source
	save := m.opts.Save
	return func() tea.Msg {
		return savedMsg{err: save(source)}
	}
}

// improve starts an enhancement. The busy flag is visible to View while
// the command runs; a second ctrl+e fails fast inside the session.
func (m *Model) improve() tea.Cmd {
	if m.opts.Improver == nil {
		m.status = editor.NoticeMissingCredential
		return nil
	}
	if m.session.State().Busy {
		m.status = editor.ErrBusy.Error()
		return nil
	}
	m.status = "improving…"

	sess, imp, instruction := m.session, m.opts.Improver, m.opts.Instruction
	return func() tea.Msg {
		state, changes, err := sess.Enhance(context.Background(), imp, instruction)
		return improveDoneMsg{state: state, changes: changes, err: err}
	}
}

// nextMode cycles WRITE, SPLIT, PREVIEW.
func nextMode(m editor.Mode) editor.Mode {
	switch m {
	case editor.ModeWrite:
		return editor.ModeSplit
	case editor.ModeSplit:
		return editor.ModePreview
	}
	return editor.ModeWrite
}

// narrowMode applies the narrow-terminal rule.
func narrowMode(m editor.Mode) editor.Mode {
	if m == editor.ModeSplit {
		return editor.ModeWrite
	}
	return m
}

// Run starts the terminal editor and blocks until the user quits.
func Run(ctx context.Context, session *editor.Session, opts Options) error {
	p := tea.NewProgram(New(session, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
