package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/mdq/internal/ui/models"
)

// RenderResults lists results in path order, capped at MaxVisibleItems.
func RenderResults(s models.State, st Styles) string {
	if len(s.Items) == 0 {
		return st.Faint.Render("No results yet.")
	}

	items := s.Items
	hidden := 0
	if s.MaxVisibleItems > 0 && len(items) > s.MaxVisibleItems {
		hidden = len(items) - s.MaxVisibleItems
		items = items[:s.MaxVisibleItems]
	}

	lines := make([]string, 0, len(items)+1)
	for _, item := range items {
		if item.IsDir {
			lines = append(lines, st.Dir.Render(item.Path+"/"))
		} else {
			lines = append(lines, item.Path)
		}
	}
	if hidden > 0 {
		lines = append(lines, st.Faint.Render(fmt.Sprintf("… %d more", hidden)))
	}
	return strings.Join(lines, "\n")
}
