package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/copperline/copperline/pkg/route"
)

// =============================================================================
// RouteModel - Interactive routing progress
// =============================================================================

// eventMsg wraps a router event for the bubbletea update loop.
type eventMsg struct {
	event route.Event
}

// channelClosedMsg signals that the router closed its event channel without
// a terminal event. Treated as an internal error.
type channelClosedMsg struct{}

// RouteModel is the bubbletea model that renders live routing progress.
// It consumes the router's event channel and quits on the terminal event.
type RouteModel struct {
	events <-chan route.Event
	cancel func()

	fraction float64
	routed   int
	failed   int

	// Terminal state, valid once done is true.
	done   bool
	Result *route.Result
	Err    error
}

// NewRouteModel creates a progress model over a running router's events.
// cancel is invoked when the user interrupts the run.
func NewRouteModel(events <-chan route.Event, cancel func()) RouteModel {
	return RouteModel{events: events, cancel: cancel}
}

func (m RouteModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the router's channel and converts the next event
// into a tea message.
func (m RouteModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func (m RouteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, m.waitForEvent() // wait for the router's Failed event
		}

	case eventMsg:
		switch ev := msg.event.(type) {
		case route.Progress:
			m.fraction = ev.Fraction
			m.routed = ev.Routed
			m.failed = ev.Failed
			return m, m.waitForEvent()
		case route.Complete:
			m.done = true
			m.fraction = 1
			m.routed = ev.Result.Routed
			m.failed = ev.Result.Failed
			m.Result = &ev.Result
			return m, tea.Quit
		case route.Failed:
			m.done = true
			m.Err = ev.Err
			return m, tea.Quit
		}

	case channelClosedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

const progressBarWidth = 40

func (m RouteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Routing"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q interrupt"))
	b.WriteString("\n\n")

	filled := int(m.fraction * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := lipgloss.NewStyle().Foreground(colorCyan).Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))

	b.WriteString(fmt.Sprintf("  %s %3.0f%%\n", bar, m.fraction*100))
	b.WriteString("  " + StyleSuccess.Render(fmt.Sprintf("%d routed", m.routed)))
	if m.failed > 0 {
		b.WriteString("  " + StyleWarning.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n")

	return b.String()
}
