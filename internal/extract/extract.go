// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls a JSON payload out of unstructured model output.
// Models are not guaranteed to emit pure JSON; extraction is lenient by
// design and never fails. When no payload can be located the raw text is
// returned unchanged so the downstream validator surfaces the parse error.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedPattern matches a fenced code block, optionally labeled json,
// whose interior is a brace-delimited object.
var fencedPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// JSONPayload extracts a best-effort JSON string from model output text.
// Strategies, in order: the whole text if it already parses as JSON, the
// interior of the first fenced code block, the substring between the first
// '{' and the last '}', and finally the raw text unchanged.
func JSONPayload(text string) string {
	if json.Valid([]byte(text)) {
		return text
	}

	if m := fencedPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}

	return text
}
