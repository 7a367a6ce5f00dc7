package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/competitionkit/ozcomps/internal/api"
	"github.com/competitionkit/ozcomps/internal/entry"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the entries in the specified format
func WriteOutput(w io.Writer, entries []*entry.Entry, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, api.NewItemsResponse(entries))
	case FormatText:
		return writeText(w, entries)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs entries as human-readable text
func writeText(w io.Writer, entries []*entry.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No competitions found.")
		return err
	}

	for i, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%3d. %s\n", i+1, title)
		fmt.Fprintf(w, "     %s\n", e.NodeURL)
		if e.SourceDomain != "" {
			fmt.Fprintf(w, "     via %s\n", e.SourceDomain)
		}
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d competitions\n", len(entries))
	return err
}
