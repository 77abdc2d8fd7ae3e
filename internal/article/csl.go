// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/company-story/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. Field names follow the CSL-YAML schema so the export is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string   `yaml:"id"`
	Type           string   `yaml:"type"`
	Title          string   `yaml:"title"`
	ContainerTitle string   `yaml:"container-title,omitempty"`
	URL            string   `yaml:"URL,omitempty"`
	Issued         *CSLDate `yaml:"issued,omitempty"`
	Accessed       *CSLDate `yaml:"accessed,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the pack's sources as a CSL-YAML list to w.
func FormatCSL(sources []types.Source, w io.Writer) error {
	items := make([]CSLItem, len(sources))
	for i, s := range sources {
		items[i] = toCSLItem(s)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// WriteCSL writes the CSL-YAML sources export next to the article.
func WriteCSL(dir, key string, sources []types.Source) (string, error) {
	path := filepath.Join(dir, key+"_sources.yaml")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating CSL export: %w", err)
	}
	defer f.Close()

	if err := FormatCSL(sources, f); err != nil {
		return "", fmt.Errorf("writing CSL export: %w", err)
	}
	return path, nil
}

// toCSLItem converts a Source to a CSLItem.
func toCSLItem(s types.Source) CSLItem {
	return CSLItem{
		ID:             fmt.Sprintf("source-%d", s.ID),
		Type:           "webpage",
		Title:          s.Title,
		ContainerTitle: s.Publisher,
		URL:            s.URL,
		Issued:         parseCSLDate(s.PublishedDate),
		Accessed:       parseCSLDate(s.AccessedDate),
	}
}

// parseCSLDate converts a YYYY-MM-DD (or partial YYYY, YYYY-MM) string into
// CSL date-parts. Unparsable input yields nil.
func parseCSLDate(date string) *CSLDate {
	if date == "" {
		return nil
	}
	var parts []int
	for _, piece := range strings.SplitN(date, "-", 3) {
		n, err := strconv.Atoi(piece)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return &CSLDate{DateParts: [][]int{parts}}
}
