package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/flowgrid/internal/domain"
)

// View renders the board.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.MouseMode = tea.MouseModeAllMotion
	v.AltScreen = true
	return v
}

// render returns the full-screen board content.
func (m Model) render() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready || m.ws == nil {
		return "loading..."
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	helpStyle := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width))

	lines := []string{m.headerLine(titleStyle, statusStyle)}
	lines = append(lines, m.titlesLine(accent, muted))
	lines = append(lines, compose(m.ws.surface, m.ws.overlay, m.palette)...)

	if m.mode == modeFilter {
		lines = append(lines, m.filterInput.View())
	} else {
		lines = append(lines, statusStyle.Render(ansi.Truncate(m.status, max(0, m.width), "…")))
	}
	lines = append(lines, helpStyle.Render(m.help.View(m.keys)))

	content := fitLines(strings.Join(lines, "\n"), max(1, m.height))
	if m.mode == modeDetails {
		content = overlayOnContent(content, m.renderDetails(accent), m.width, m.height)
	}
	return content
}

// headerLine summarizes the active grid and any drag in flight.
func (m Model) headerLine(titleStyle, statusStyle lipgloss.Style) string {
	parts := []string{titleStyle.Render("flowgrid")}
	if p := m.activePane(); p != nil {
		parts = append(parts, "grid: "+p.title)
		if locked := p.grid.Locked(); locked != domain.CapabilityNone {
			parts = append(parts, "locked: "+locked.String())
		}
	}
	if m.filterQuery != "" {
		parts = append(parts, "filter: "+m.filterQuery)
	}
	if n := m.ws.sup.NumberOfDraggedCells(); n > 0 {
		parts = append(parts, fmt.Sprintf("dragging %d", n))
	}
	line := parts[0]
	if len(parts) > 1 {
		line += "  " + statusStyle.Render(strings.Join(parts[1:], " • "))
	}
	return ansi.Truncate(line, max(0, m.width), "…")
}

// titlesLine places each grid title above its left edge.
func (m Model) titlesLine(accent, muted color.Color) string {
	var b strings.Builder
	col := 0
	for i, p := range m.ws.panes {
		x := int(p.grid.Origin().X)
		if x >= m.width {
			break
		}
		if x > col {
			b.WriteString(strings.Repeat(" ", x-col))
			col = x
		}
		width := int(p.grid.Layout().Size().Width)
		title := fmt.Sprintf("%s (%d)", p.title, len(p.grid.Items()))
		if p.grid.Filtered() {
			title = fmt.Sprintf("%s (%d/%d)", p.title, len(p.grid.Items()), len(p.grid.SourceItems()))
		}
		title = ansi.Truncate(title, min(width, m.width-col), "…")
		style := lipgloss.NewStyle().Foreground(muted)
		if i == m.active {
			style = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		b.WriteString(style.Render(title))
		col += lipgloss.Width(title)
	}
	return b.String()
}

// renderDetails renders the details modal for the open card.
func (m Model) renderDetails(accent color.Color) string {
	card, ok := m.ws.card(m.detailsItem)
	if !ok {
		return ""
	}
	width := clamp(m.width*2/3, minDetailsWidth, max(minDetailsWidth, m.width-4))
	body := m.details.render(card, width-4)
	body = fitLines(body, max(1, m.height-6))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("esc close • y copy label")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width).
		Render(body + "\n\n" + hint)
}

// clamp limits v to the inclusive range [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// wrapIndex moves current by delta and wraps around total.
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := (current + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centres overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	if strings.TrimSpace(overlay) == "" {
		return base
	}
	if width <= 0 || height <= 0 {
		return overlay + "\n\n" + base
	}
	base = fitLines(base, height)
	c := lipgloss.NewCanvas(width, height)
	c.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	c.Compose(lipgloss.NewLayer(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)).X(0).Y(0).Z(10))
	return c.Render()
}
