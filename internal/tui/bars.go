package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/dualscreen/internal/ipc"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

var (
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(status *ipc.StatusData, consts *spanning.Constants, closed bool, width int) string {
	var parts []string
	switch {
	case closed:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("●")
		parts = append(parts, dot+" stream closed")
	case status == nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		parts = append(parts, dot+" connecting")
	case status.Paused:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("●")
		parts = append(parts, dot+" daemon paused")
	default:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts = append(parts, dot+" daemon listening")
	}
	if status != nil {
		parts = append(parts, fmt.Sprintf("events:%d", status.EventsEmitted))
	}
	if consts != nil {
		device := "single-screen"
		if consts.IsDualScreenDevice {
			device = "dual-screen"
		}
		parts = append(parts, device, fmt.Sprintf("hinge:%ddp", consts.HingeWidth))
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(strings.Join(parts, "  "))
}

func renderPreviewBlock(ev *spanning.Event, width, height int) string {
	if ev == nil {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("waiting for didUpdateSpanning")
	}
	return strings.Join(renderASCIIPreview(ev, width, height), "\n")
}

func renderDetails(ev *spanning.Event, updatedAt time.Time, message string, err error, width int) string {
	lines := []string{titleStyle.Render(summarizeEvent(ev))}
	if ev != nil {
		for i, r := range ev.WindowRects {
			lines = append(lines, "  "+describeRegion(i+1, r))
		}
		lines = append(lines, mutedStyle.Render("updated "+updatedAt.Format("15:04:05")))
	}
	switch {
	case err != nil:
		lines = append(lines, errorStyle.Render(err.Error()))
	case message != "":
		lines = append(lines, mutedStyle.Render(message))
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "r: refresh  p: pause/resume  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
