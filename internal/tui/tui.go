package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/dualscreen/internal/ipc"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

var _ Client = (*ipc.Client)(nil)

// Run shows a live view of the daemon's spanning state until the user quits.
func Run(ctx context.Context, client *ipc.Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if err := client.Ping(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	go func() {
		err := client.Subscribe(ctx, func(ev spanning.Event) {
			p.Send(eventMsg{event: ev})
		})
		if ctx.Err() == nil {
			p.Send(streamClosedMsg{err: err})
		}
	}()
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
