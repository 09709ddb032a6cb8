// Package tui renders a live progress view for a running transfer. The
// model is driven entirely by progress snapshots from the transfer
// service's event stream.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// snapshotMsg carries the next progress snapshot from the event stream.
type snapshotMsg domain.ProgressSnapshot

// streamClosedMsg signals that the transfer's run has ended.
type streamClosedMsg struct{}

// Model implements tea.Model for a single transfer's progress view.
type Model struct {
	events <-chan domain.ProgressSnapshot
	stop   func()
	cancel func()

	snapshot domain.ProgressSnapshot
	finished bool

	spinner  spinner.Model
	progress progress.Model
	width    int

	titleStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	helpStyle    lipgloss.Style
}

// New creates the progress model. stop detaches from the event stream;
// cancel requests cancellation of the transfer itself.
func New(initial domain.ProgressSnapshot, events <-chan domain.ProgressSnapshot, stop, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		events:       events,
		stop:         stop,
		cancel:       cancel,
		snapshot:     initial,
		spinner:      s,
		progress:     progress.New(progress.WithDefaultGradient()),
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1),
		infoStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		helpStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.events))
}

// waitForSnapshot blocks on the event stream and converts the next
// snapshot into a message. Coalescing happens upstream, so this never
// lags behind the run.
func waitForSnapshot(events <-chan domain.ProgressSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stop()
			return m, tea.Quit
		case "c":
			if !m.finished && m.cancel != nil {
				m.cancel()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 14

	case snapshotMsg:
		m.snapshot = domain.ProgressSnapshot(msg)
		cmds = append(cmds, waitForSnapshot(m.events))

	case streamClosedMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initialising..."
	}

	snap := m.snapshot
	var sb strings.Builder

	header := fmt.Sprintf("%s FTransport %s", m.spinner.View(),
		m.titleStyle.Render("Transfer "+snap.TransferID))
	sb.WriteString(header + "\n")

	sb.WriteString(m.infoStyle.Render(statusLine(snap)) + "\n")
	sb.WriteString(m.progress.ViewAs(snap.OverallProgress/100) + "\n\n")

	if snap.CurrentFile != nil {
		name := snap.CurrentFile.Name
		if len(name) > 40 {
			name = "..." + name[len(name)-37:]
		}
		sb.WriteString(fmt.Sprintf("  %s (%.0f%%)\n", name, snap.CurrentFile.Progress))
	}

	if snap.ErrorMessage != "" {
		sb.WriteString(m.errorStyle.Render("  "+snap.ErrorMessage) + "\n")
	}

	help := m.helpStyle.Render("q: detach • c: cancel transfer")
	switch snap.Status {
	case domain.StatusCompleted:
		help = m.successStyle.Render("Transfer complete!")
	case domain.StatusFailed:
		help = m.errorStyle.Render("Transfer failed.")
	case domain.StatusCancelled:
		help = m.infoStyle.Render("Transfer cancelled.")
	}
	sb.WriteString("\n" + help)

	return sb.String()
}

func statusLine(snap domain.ProgressSnapshot) string {
	line := fmt.Sprintf("Status: %s | %.1f%% | %d/%d files",
		snap.Status, snap.OverallProgress, snap.FilesCompleted, snap.TotalFiles)
	if snap.FilesFailed > 0 {
		line += fmt.Sprintf(" | %d failed", snap.FilesFailed)
	}
	return line
}
