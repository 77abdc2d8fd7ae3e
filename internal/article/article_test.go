// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/company-story/pkg/types"
)

func sampleSources() []types.Source {
	return []types.Source{
		{ID: 2, Title: "Annual Report", URL: "https://example.com/ar", Publisher: "Example Corp", PublishedDate: "2026-01-15", AccessedDate: "2026-03-14"},
		{ID: 1, Title: "Company Profile", URL: "https://example.com/profile", Publisher: "Finance Site", AccessedDate: "2026-03-14"},
	}
}

func TestFormatSourcesSectionSortsByID(t *testing.T) {
	section := FormatSourcesSection(sampleSources())

	lines := strings.Split(section, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "## Sources", lines[0])
	assert.Contains(t, lines[2], "[#1] Company Profile")
	assert.Contains(t, lines[3], "[#2] Annual Report")
}

func TestFormatSourcesSectionUnknownDatePlaceholder(t *testing.T) {
	section := FormatSourcesSection(sampleSources())
	assert.Contains(t, section, "unknown date")
	assert.Contains(t, section, "2026-01-15")
}

func TestEnsureSourcesAppendsWhenAbsent(t *testing.T) {
	md := "# Example Corp\n\nA story about widgets.\n"

	out := EnsureSources(md, sampleSources())
	assert.True(t, strings.HasPrefix(out, "# Example Corp"))
	assert.Contains(t, out, "\n\n## Sources\n")
	assert.Contains(t, out, "[#2] Annual Report")
}

func TestEnsureSourcesKeepsExistingSection(t *testing.T) {
	md := "# Example Corp\n\n## Sources\n\n[#9] Already cited\n"

	out := EnsureSources(md, sampleSources())
	assert.Equal(t, md, out)
	assert.NotContains(t, out, "[#1]")
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	pack := &types.FactPack{GeneratedAt: "2026-03-14T12:00:00Z", Sources: sampleSources()}

	mdPath, sourcesPath, err := WriteOutputs(dir, "AAPL", "aapl_2026-03-14", "# Article\n", pack)
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "# Article\n", string(md))

	data, err := os.ReadFile(sourcesPath)
	require.NoError(t, err)

	var sf SourcesFile
	require.NoError(t, json.Unmarshal(data, &sf))
	assert.Equal(t, "AAPL", sf.Company)
	assert.Equal(t, "2026-03-14T12:00:00Z", sf.GeneratedAt)
	assert.Len(t, sf.Sources, 2)
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(sampleSources(), &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	assert.Equal(t, "source-2", items[0].ID)
	assert.Equal(t, "webpage", items[0].Type)
	assert.Equal(t, "Example Corp", items[0].ContainerTitle)
	require.NotNil(t, items[0].Issued)
	assert.Equal(t, [][]int{{2026, 1, 15}}, items[0].Issued.DateParts)

	// No published date: issued omitted, accessed kept.
	assert.Nil(t, items[1].Issued)
	require.NotNil(t, items[1].Accessed)
	assert.Equal(t, [][]int{{2026, 3, 14}}, items[1].Accessed.DateParts)
}

func TestWriteCSL(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteCSL(dir, "aapl_2026-03-14", sampleSources())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "aapl_2026-03-14_sources.yaml"))

	_, err = os.Stat(path)
	require.NoError(t, err)
}
