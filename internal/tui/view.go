package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	layout := m.calculateLayout()
	list := m.renderList(layout.ListWidth, layout.ContentHeight)
	preview := m.renderPreview(layout.PreviewWidth, layout.ContentHeight)
	row := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)

	return row + "\n" + m.renderStatus(m.width)
}

func (m *Model) renderList(width, height int) string {
	innerHeight := max(0, height-listPane.GetVerticalFrameSize())
	var b strings.Builder
	for i, e := range m.visible {
		if i >= innerHeight {
			break
		}
		line := e.Title
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("no notes match"))
	}
	return listPane.Copy().Width(width).Height(height).Render(b.String())
}

func (m *Model) renderPreview(width, height int) string {
	header := ""
	if e := m.selected(); e != nil {
		header = previewHeader.Copy().Width(width - previewPane.GetHorizontalFrameSize()).Render(e.ID)
	}
	body := m.viewport.View()
	return previewPane.Copy().Width(width).Height(height).Render(header + "\n" + body)
}

func (m *Model) renderStatus(width int) string {
	text := m.status
	if m.searching {
		text = m.search.View()
	}
	return statusStyle.Copy().Width(width).Render(fmt.Sprintf(" %s", text))
}
