package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/history"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	sentinelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	selectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("200")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calculator"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	style := resultStyle
	if m.result == calc.Unknown || m.result == calc.TooSmall {
		style = sentinelStyle
	}
	b.WriteString("= ")
	b.WriteString(style.Render(m.result))
	b.WriteString("\n")
	if m.recall != nil {
		b.WriteString("\n")
		for i, it := range m.recall {
			line := history.Display(it)
			if i == m.sel {
				b.WriteString(selectStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ choose • enter recall • esc cancel"))
	} else {
		if m.status != "" {
			b.WriteString("\n")
			b.WriteString(helpStyle.Render(m.status))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("ctrl+s save • ctrl+r recall • ctrl+l clear • esc quit"))
	}
	return frameStyle.Render(b.String())
}
