package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/burden-map/internal/choropleth"
	"github.com/sells-group/burden-map/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bd0026"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f03b20"))
	suggestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const selectDefault = "Select housing + income to calculate burden."

func swatch(b choropleth.Band) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(b.Color)).Render("    ")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Philadelphia Energy Burden"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	for _, s := range m.suggestions {
		b.WriteString(suggestStyle.Render(s.DisplayName))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(selector("Housing", m.state.Housing, "Select housing"))
	b.WriteString("\n")
	b.WriteString(selector("Income ", m.state.Income, "Select income"))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(m.resultView()))
	b.WriteString("\n")
	b.WriteString(legend())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(promptStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("enter search • tab accept suggestion • ←/→ housing • ↑/↓ income • ctrl+e calculate • ctrl+r clear • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func legend() string {
	parts := make([]string, 0, len(choropleth.Legend()))
	for _, band := range choropleth.Legend() {
		parts = append(parts, swatch(band)+" "+labelStyle.Render(band.Label))
	}
	return strings.Join(parts, "  ")
}

func selector(label, value, placeholder string) string {
	v := dimStyle.Render(placeholder)
	if value != "" {
		v = valueStyle.Render(value)
	}
	return labelStyle.Render(label+": ") + "‹ " + v + " ›"
}

func (m *Model) resultView() string {
	var lines []string

	switch {
	case m.outcome == nil:
		lines = append(lines, dimStyle.Render("Search for an address to find its census tract."))
	case !m.outcome.Found():
		lines = append(lines, fmt.Sprintf("%.5f, %.5f", m.outcome.Point.Lat, m.outcome.Point.Lon))
		lines = append(lines, session.NoTractMessage)
	default:
		o := m.outcome
		if o.DisplayName != "" {
			lines = append(lines, o.DisplayName)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			swatch(o.Band),
			choropleth.Tooltip(o.TractID(), o.Observed, o.HasObserved),
			labelStyle.Render(o.Band.Label),
		))
	}

	if m.estimate == nil {
		lines = append(lines, dimStyle.Render(selectDefault))
	} else {
		e := m.estimate
		lines = append(lines, fmt.Sprintf("%s Predicted energy burden: %.1f%%", swatch(e.Band), e.Predicted))
	}
	return strings.Join(lines, "\n")
}
