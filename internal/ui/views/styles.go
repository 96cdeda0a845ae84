package views

import (
	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style used by the watch UI.
type Styles struct {
	Header lipgloss.Style
	Dir    lipgloss.Style
	Faint  lipgloss.Style
	Add    lipgloss.Style
	Change lipgloss.Style
	Remove lipgloss.Style
	Error  lipgloss.Style
	Box    lipgloss.Style
}

// NewStyles builds styles from the configured colors.
func NewStyles(cfg config.UIConfig) Styles {
	primary := lipgloss.Color(cfg.ColorPrimary)
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(primary),
		Dir:    lipgloss.NewStyle().Foreground(primary),
		Faint:  lipgloss.NewStyle().Faint(true),
		Add:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorAdd)),
		Change: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorChange)),
		Remove: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorRemove)),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.ColorRemove)),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
	}
}
