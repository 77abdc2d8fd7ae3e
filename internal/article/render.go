// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article turns a validated fact pack plus model prose into the
// final self-citing document and its companion source files.
package article

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/company-story/pkg/types"
)

// sourcesHeading is the heading the renderer looks for before appending its
// own sources section.
const sourcesHeading = "## Sources"

// HasSourcesSection reports whether the prose already carries a sources
// heading.
func HasSourcesSection(markdown string) bool {
	return strings.Contains(markdown, sourcesHeading)
}

// FormatSourcesSection renders the sources list as a Markdown section.
// Sources are sorted by ascending id, one line per source.
func FormatSourcesSection(sources []types.Source) string {
	sorted := make([]types.Source, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lines := []string{sourcesHeading, ""}
	for _, s := range sorted {
		publisher := s.Publisher
		if publisher == "" {
			publisher = "unknown publisher"
		}
		date := s.PublishedDate
		if date == "" {
			date = "unknown date"
		}
		lines = append(lines, fmt.Sprintf("[#%d] %s — %s — %s — %s", s.ID, s.Title, publisher, date, s.URL))
	}
	return strings.Join(lines, "\n")
}

// EnsureSources guarantees the document ends with a sources section. Prose
// that already contains one is returned unchanged; otherwise the section is
// built from the pack's sources and appended.
func EnsureSources(markdown string, sources []types.Source) string {
	if HasSourcesSection(markdown) {
		return markdown
	}
	return strings.TrimRight(markdown, " \n") + "\n\n" + FormatSourcesSection(sources)
}
