// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factpack

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-story/pkg/types"
)

func TestMain(m *testing.M) {
	// Fixed clock for deterministic generated_at values.
	now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}
	os.Exit(m.Run())
}

// validPayload returns a minimal payload that passes strict construction.
func validPayload() map[string]any {
	timeline := make([]map[string]any, 5)
	for i := range timeline {
		timeline[i] = map[string]any{
			"date":         fmt.Sprintf("20%02d", 10+i),
			"event":        fmt.Sprintf("milestone %d", i+1),
			"significance": "shaped the business",
		}
	}
	news := make([]map[string]any, 3)
	for i := range news {
		news[i] = map[string]any{
			"title":   fmt.Sprintf("headline %d", i+1),
			"summary": "one line summary",
			"impact":  "modest",
		}
	}
	risks := make([]map[string]any, 3)
	for i := range risks {
		risks[i] = map[string]any{
			"risk_name":   fmt.Sprintf("risk %d", i+1),
			"description": "a real risk",
		}
	}
	return map[string]any{
		"company":     map[string]any{"full_name": "Example Corp", "ticker": "EXMP"},
		"business":    map[string]any{"main_business_lines": []string{"widgets"}},
		"timeline":    timeline,
		"financials":  map[string]any{},
		"valuation":   map[string]any{},
		"news_30_90d": news,
		"risks":       risks,
		"sources": []map[string]any{
			{"id": 1, "title": "10-K", "url": "https://example.com/10k", "publisher": "SEC", "accessed_date": "2026-03-14"},
		},
		"search_keywords": []string{},
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestBuildStrictSuccess(t *testing.T) {
	pack, err := Build(marshal(t, validPayload()), BuildOptions{WebSearchEnabled: true})
	require.NoError(t, err)

	assert.Equal(t, "Example Corp", pack.Company.FullName)
	assert.True(t, pack.WebSearchEnabled)
	assert.Equal(t, "2026-03-14T12:00:00Z", pack.GeneratedAt)
	assert.Len(t, pack.Timeline, 5)
}

func TestBuildCallerWebSearchSettingIsAuthoritative(t *testing.T) {
	payload := validPayload()
	payload["web_search_enabled"] = true

	pack, err := Build(marshal(t, payload), BuildOptions{WebSearchEnabled: false})
	require.NoError(t, err)
	assert.False(t, pack.WebSearchEnabled)
}

func TestBuildMalformedPayload(t *testing.T) {
	_, err := Build("not json at all", BuildOptions{})

	var malformed *MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
}

func TestBuildMissingSectionReportsFirstAbsent(t *testing.T) {
	payload := validPayload()
	delete(payload, "business")
	delete(payload, "valuation")

	_, err := Build(marshal(t, payload), BuildOptions{})

	var missing *MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "business", missing.Section)
}

func TestBuildTypeMismatchIsSchemaError(t *testing.T) {
	payload := validPayload()
	payload["timeline"] = "not a list"

	_, err := Build(marshal(t, payload), BuildOptions{})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Violations, 1)
	assert.Equal(t, RuleType, schemaErr.Violations[0].Rule)
}

func TestBuildPadsShortTimeline(t *testing.T) {
	payload := validPayload()
	payload["timeline"] = payload["timeline"].([]map[string]any)[:4]

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)

	require.Len(t, pack.Timeline, 5)
	assert.False(t, pack.Timeline[3].Synthetic)
	assert.True(t, pack.Timeline[4].Synthetic)
}

func TestBuildPadsEmptyTimelineWithFivePlaceholders(t *testing.T) {
	payload := validPayload()
	payload["timeline"] = []map[string]any{}

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)

	require.Len(t, pack.Timeline, 5)
	for _, ev := range pack.Timeline {
		assert.True(t, ev.Synthetic)
	}
}

func TestBuildRejectsOverlongTimeline(t *testing.T) {
	timeline := make([]map[string]any, 8)
	for i := range timeline {
		timeline[i] = map[string]any{"date": "2020", "event": "e", "significance": "s"}
	}
	payload := validPayload()
	payload["timeline"] = timeline

	_, err := Build(marshal(t, payload), BuildOptions{})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, RuleMaxLength, schemaErr.Violations[0].Rule)
}

func TestBuildTruncatesNewsToTen(t *testing.T) {
	news := make([]map[string]any, 12)
	for i := range news {
		news[i] = map[string]any{
			"title":   fmt.Sprintf("headline %d", i+1),
			"summary": "s",
			"impact":  "i",
		}
	}
	payload := validPayload()
	payload["news_30_90d"] = news

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)

	require.Len(t, pack.News, 10)
	assert.Equal(t, "headline 1", pack.News[0].Title)
	assert.Equal(t, "headline 10", pack.News[9].Title)
}

func TestBuildPadsShortNews(t *testing.T) {
	payload := validPayload()
	payload["news_30_90d"] = payload["news_30_90d"].([]map[string]any)[:1]

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)

	require.Len(t, pack.News, 3)
	assert.False(t, pack.News[0].Synthetic)
	assert.True(t, pack.News[1].Synthetic)
	assert.True(t, pack.News[2].Synthetic)
}

func TestBuildClampsRisksToEight(t *testing.T) {
	risks := make([]map[string]any, 9)
	for i := range risks {
		risks[i] = map[string]any{"risk_name": fmt.Sprintf("risk %d", i+1), "description": "d"}
	}
	payload := validPayload()
	payload["risks"] = risks

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)
	require.Len(t, pack.Risks, 8)
	assert.Equal(t, "risk 1", pack.Risks[0].RiskName)
}

func TestBuildPadsShortRisks(t *testing.T) {
	payload := validPayload()
	payload["risks"] = payload["risks"].([]map[string]any)[:2]

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)
	require.Len(t, pack.Risks, 3)
	assert.True(t, pack.Risks[2].Synthetic)
}

func TestBuildSoftRepairDefaultsOptionalCollections(t *testing.T) {
	payload := validPayload()
	payload["sources"] = nil
	delete(payload, "search_keywords")
	payload["news_30_90d"] = payload["news_30_90d"].([]map[string]any)[:2]

	pack, err := Build(marshal(t, payload), BuildOptions{})
	require.NoError(t, err)

	assert.NotNil(t, pack.Sources)
	assert.Empty(t, pack.Sources)
	assert.NotNil(t, pack.SearchKeywords)
	require.Len(t, pack.News, 3)
}

// Padding repair only fires when under-length lists are the sole failure;
// it must not mask unrelated violations.
func TestBuildPaddingDoesNotMaskOtherViolations(t *testing.T) {
	payload := validPayload()
	payload["timeline"] = payload["timeline"].([]map[string]any)[:4]
	payload["company"] = map[string]any{"full_name": ""}

	_, err := Build(marshal(t, payload), BuildOptions{})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestBuildRoundTrip(t *testing.T) {
	pack, err := Build(marshal(t, validPayload()), BuildOptions{WebSearchEnabled: true})
	require.NoError(t, err)

	data, err := json.Marshal(pack)
	require.NoError(t, err)

	var restored types.FactPack
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, *pack, restored)
}
