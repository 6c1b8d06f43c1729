package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen interface and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m := NewModel(ctx, opts)
	m.width = terminalWidth()
	if w := m.width - 50; w > 10 {
		m.progress.Width = w
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
