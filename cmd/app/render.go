package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notestore"
)

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "No tags"
	}
	return strings.Join(tags, ", ")
}

// formatNote renders a full note for the view command.
func formatNote(n *models.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", n.ID)
	fmt.Fprintf(&b, "Title: %s\n", n.Title)
	fmt.Fprintf(&b, "Tags: %s\n", formatTags(n.Tags))
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Updated: %s\n", n.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "\n%s\n", n.Content)
	return b.String()
}

// formatEntries renders index entries for the list command.
func formatEntries(entries []models.IndexEntry) string {
	if len(entries) == 0 {
		return "No notes found.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "ID: %s\n", e.ID)
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
		fmt.Fprintf(&b, "Tags: %s\n", formatTags(e.Tags))
		fmt.Fprintf(&b, "Updated: %s\n", e.UpdatedAt.Format(time.RFC3339))
		b.WriteString("\n")
	}
	return b.String()
}

// formatResults renders search hits for the search command.
func formatResults(query string, results []notestore.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No notes found matching %q.\n", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d notes matching %q:\n", len(results), query)
	for _, r := range results {
		fmt.Fprintf(&b, "ID: %s\n", r.ID)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "Tags: %s\n", formatTags(r.Tags))
		fmt.Fprintf(&b, "Matched: %s\n", r.Matched)
		fmt.Fprintf(&b, "Updated: %s\n", r.UpdatedAt.Format(time.RFC3339))
		b.WriteString("\n")
	}
	return b.String()
}
