package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/ui/services"
)

const (
	formatPlain    = "plain"
	formatJSON     = "json"
	formatMarkdown = "markdown"

	markdownWidth = 100
)

// formatError is returned for an unknown --format value.
type formatError struct {
	format string
}

func (e *formatError) Error() string {
	return fmt.Sprintf("unknown output format %q (want plain, json or markdown)", e.format)
}

func (e *formatError) InvalidInput() bool { return true }

func checkFormat(format string) error {
	switch format {
	case formatPlain, formatJSON, formatMarkdown:
		return nil
	}
	return &formatError{format: format}
}

func writeItems(w io.Writer, format, expression string, items []mdquery.Item, renderer services.MarkdownRenderer) error {
	switch format {
	case formatJSON:
		if items == nil {
			items = []mdquery.Item{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case formatMarkdown:
		_, err := io.WriteString(w, services.RenderMarkdown(services.ResultsMarkdown(expression, items), markdownWidth, renderer))
		return err
	default:
		for _, item := range items {
			if _, err := fmt.Fprintln(w, item.Path); err != nil {
				return err
			}
		}
		return nil
	}
}
