package views

import (
	"github.com/Cyclone1070/mdq/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State, st Styles) string {
	header := st.Header.Render("mdq watch")
	if s.Expression != "" {
		header += " " + st.Faint.Render(s.Expression)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		st.Box.Render(RenderResults(s, st)),
		RenderEvents(s, st),
		"",
		RenderStatus(s, st),
	)
}
