package views

import (
	"fmt"

	"github.com/Cyclone1070/mdq/internal/ui/models"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State, st Styles) string {
	switch s.StatusPhase {
	case models.PhaseRunning:
		return fmt.Sprintf("%s %s", s.Spinner.View(), orDefault(s.StatusMessage, "Searching"))
	case models.PhaseWatching:
		msg := fmt.Sprintf("● Watching %d results", len(s.Items))
		if s.StatusMessage != "" {
			msg += "  " + s.StatusMessage
		}
		return st.Add.Render(msg) + st.Faint.Render("  r: rerun  q: quit")
	case models.PhaseError:
		return st.Error.Render("✘ " + orDefault(s.StatusMessage, "Query failed"))
	default:
		return st.Faint.Render(orDefault(s.StatusMessage, "Ready"))
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
