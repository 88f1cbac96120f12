// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mboulet/moteus/pkg/moteus"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live telemetry view",
	Long: `Continuously query the target device and display its state in a
terminal UI. Press q to exit.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 50*time.Millisecond, "Query interval")
	rootCmd.AddCommand(watchCmd)
}

// TUI styles
var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	watchLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)
	watchValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	watchFaultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
	watchHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type watchStateMsg struct {
	state *moteus.State
	err   error
}
type watchPollMsg struct{}

type watchModel struct {
	controller *moteus.Controller
	id         uint8
	interval   time.Duration

	spinner  spinner.Model
	state    *moteus.State
	lastErr  error
	queries  int
	failures int
	quitting bool
}

func newWatchModel(c *moteus.Controller, id uint8, interval time.Duration) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	return watchModel{controller: c, id: id, interval: interval, spinner: sp}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// poll issues one query off the UI goroutine.
func (m watchModel) poll() tea.Cmd {
	c, id := m.controller, m.id
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		state, err := c.Query(ctx, id)
		return watchStateMsg{state: state, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case watchStateMsg:
		m.queries++
		if msg.err != nil {
			m.failures++
			m.lastErr = msg.err
		} else {
			m.state = msg.state
			m.lastErr = nil
		}
		interval := m.interval
		return m, tea.Tick(interval, func(time.Time) tea.Msg { return watchPollMsg{} })
	case watchPollMsg:
		return m, m.poll()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	out := watchTitleStyle.Render(fmt.Sprintf("moteus watch - device %d", m.id)) + "\n\n"

	row := func(label, value string) string {
		return watchLabelStyle.Render(label) + watchValueStyle.Render(value) + "\n"
	}

	if m.state != nil {
		s := m.state
		out += row("mode", s.Mode.String())
		out += row("position", fmt.Sprintf("%9.4f rev", s.Position))
		out += row("velocity", fmt.Sprintf("%9.4f rev/s", s.Velocity))
		out += row("torque", fmt.Sprintf("%9.3f Nm", s.Torque))
		out += row("voltage", fmt.Sprintf("%9.1f V", s.Voltage))
		out += row("temperature", fmt.Sprintf("%9.1f C", s.Temperature))
		if s.Fault != 0 {
			out += watchLabelStyle.Render("fault") + watchFaultStyle.Render(moteus.FaultString(s.Fault)) + "\n"
		}
	} else {
		out += m.spinner.View() + " waiting for first reply...\n"
	}

	out += "\n"
	if m.lastErr != nil {
		out += watchFaultStyle.Render(fmt.Sprintf("error: %v", m.lastErr)) + "\n"
	}
	out += watchHelpStyle.Render(fmt.Sprintf("%d queries, %d failed - q to quit", m.queries, m.failures)) + "\n"
	return out
}

func runWatch(cmd *cobra.Command, args []string) error {
	c, s, err := openController()
	if err != nil {
		return err
	}
	defer c.Close()

	p := tea.NewProgram(newWatchModel(c, s.ID, watchInterval))
	_, err = p.Run()
	return err
}
