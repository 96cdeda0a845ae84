// Package services renders result lists for display.
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns markdown into terminal output.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders markdown with glamour, picking a style that suits
// the terminal background.
type GlamourRenderer struct {
	style string
}

// NewGlamourRenderer creates a renderer. An empty style means auto-detect.
func NewGlamourRenderer(style string) *GlamourRenderer {
	return &GlamourRenderer{style: style}
}

func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if g.style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(g.style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// RenderMarkdown renders content, falling back to the raw markdown when the
// renderer fails.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) string {
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content, width)
	if err != nil {
		return content
	}
	return out
}

// ResultsMarkdown formats items as a markdown table under a heading naming
// the expression.
func ResultsMarkdown(expression string, items []mdquery.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %d results\n\n", len(items))
	if expression != "" {
		fmt.Fprintf(&b, "`%s`\n\n", expression)
	}
	if len(items) == 0 {
		return b.String()
	}

	b.WriteString("| Path | Kind | Modified | Last used |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, item := range items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(item.Path), Kind(item), FormatTime(item.LastModifyTime), formatOptionalTime(item.LastUsedTime))
	}
	return b.String()
}

// Kind describes an item in a word: "dir", "app" for bundles with an
// identifier, otherwise the extension or "file".
func Kind(item mdquery.Item) string {
	switch {
	case item.BundleIdentifier != "":
		return "app"
	case item.IsDir:
		return "dir"
	case item.Extension != "":
		return item.Extension
	default:
		return "file"
	}
}

// FormatTime renders epoch seconds as a UTC date and time, or "-" for zero.
func FormatTime(epochSeconds int64) string {
	if epochSeconds == 0 {
		return "-"
	}
	return time.Unix(epochSeconds, 0).UTC().Format("2006-01-02 15:04")
}

func formatOptionalTime(epochSeconds *int64) string {
	if epochSeconds == nil {
		return "-"
	}
	return FormatTime(*epochSeconds)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
