package tui

import (
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/dualscreen/internal/ipc"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

// Client is the subset of the IPC client the view needs.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	GetConstants() (*spanning.Constants, error)
	Refresh() (bool, error)
	Pause() error
	Resume() error
}

type eventMsg struct {
	event spanning.Event
}

type streamClosedMsg struct {
	err error
}

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type constantsMsg struct {
	constants *spanning.Constants
	err       error
}

type actionMsg struct {
	text string
	err  error
}

// model is the root bubbletea model for the TUI.
type model struct {
	client Client
	now    func() time.Time

	event     *spanning.Event
	updatedAt time.Time
	received  int

	status    *ipc.StatusData
	constants *spanning.Constants

	message string
	err     error
	closed  bool

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Client) model {
	return model{client: client, now: time.Now}
}

func fetchStatus(c Client) tea.Cmd {
	return func() tea.Msg {
		status, err := c.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func fetchConstants(c Client) tea.Cmd {
	return func() tea.Msg {
		consts, err := c.GetConstants()
		return constantsMsg{constants: consts, err: err}
	}
}

func refresh(c Client) tea.Cmd {
	return func() tea.Msg {
		emitted, err := c.Refresh()
		if err != nil {
			return actionMsg{err: err}
		}
		if emitted {
			return actionMsg{text: "refreshed: state changed"}
		}
		return actionMsg{text: "refreshed: state unchanged"}
	}
}

func setPaused(c Client, pause bool) tea.Cmd {
	return func() tea.Msg {
		if pause {
			if err := c.Pause(); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{text: "paused"}
		}
		if err := c.Resume(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "resumed"}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchStatus(m.client), fetchConstants(m.client))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, refresh(m.client)
		case "p":
			paused := m.status != nil && m.status.Paused
			return m, setPaused(m.client, !paused)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		ev := msg.event
		m.event = &ev
		m.updatedAt = m.now()
		m.received++
		return m, fetchStatus(m.client)

	case streamClosedMsg:
		m.closed = true
		m.err = msg.err

	case statusMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = msg.status

	case constantsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.constants = msg.constants

	case actionMsg:
		m.message = msg.text
		m.err = msg.err
		if msg.err == nil {
			return m, fetchStatus(m.client)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.constants, m.closed, m.width)
	helpBar := renderHelpBar(m.width)
	details := renderDetails(m.event, m.updatedAt, m.message, m.err, m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(helpBar) + lipgloss.Height(details)
	previewHeight := m.height - used
	if previewHeight < 3 {
		previewHeight = 3
	}

	preview := renderPreviewBlock(m.event, m.width, previewHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		preview,
		details,
		helpBar,
	)
}
