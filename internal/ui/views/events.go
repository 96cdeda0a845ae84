package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/ui/models"
)

var eventSymbols = map[mdquery.UpdateType]string{
	mdquery.UpdateAdd:    "+",
	mdquery.UpdateChange: "~",
	mdquery.UpdateRemove: "-",
}

// RenderEvents renders the update log, oldest first.
func RenderEvents(s models.State, st Styles) string {
	if len(s.Events) == 0 {
		return st.Faint.Render("Waiting for changes…")
	}

	lines := make([]string, 0, len(s.Events))
	for _, ev := range s.Events {
		style := st.Add
		switch ev.Type {
		case mdquery.UpdateChange:
			style = st.Change
		case mdquery.UpdateRemove:
			style = st.Remove
		}

		summary := strings.Join(ev.Paths, ", ")
		if len(ev.Paths) > 3 {
			summary = fmt.Sprintf("%s and %d more", strings.Join(ev.Paths[:3], ", "), len(ev.Paths)-3)
		}
		line := fmt.Sprintf("%s %s %s", ev.At.Format("15:04:05"), eventSymbols[ev.Type], summary)
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
