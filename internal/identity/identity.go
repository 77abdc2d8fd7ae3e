// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity normalizes free-form company input into the canonical
// identifier used as the cache and output-file key.
package identity

import (
	"regexp"
	"strings"
	"time"
)

// tickerPattern matches exchange tickers: 1-5 letters plus at most one
// trailing digit ("AAPL", "BRK4"). Punctuated forms like "BRK.A" are
// company names, not tickers.
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}[0-9]?$`)

// illegalPattern matches characters stripped from filenames.
var illegalPattern = regexp.MustCompile(`[<>:"/\\|?*]`)

// Normalize classifies company input as a ticker or a name. Tickers are
// returned upper-case in both positions; names return an empty ticker and
// the lower-cased trimmed form.
func Normalize(input string) (ticker, name string) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if tickerPattern.MatchString(s) {
		return s, s
	}
	return "", strings.ToLower(s)
}

// Identifier returns the canonical identifier for company input: the ticker
// when the input looks like one, otherwise the normalized name.
func Identifier(input string) string {
	ticker, name := Normalize(input)
	if ticker != "" {
		return ticker
	}
	return name
}

// Sanitize makes an identifier safe for use as a filename. Illegal
// characters are removed, surrounding whitespace trimmed, and the result
// lower-cased. An empty result becomes "unknown".
func Sanitize(name string) string {
	name = illegalPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "unknown"
	}
	return strings.ToLower(name)
}

// Key builds the date-stamped storage key "<sanitized>_<YYYY-MM-DD>".
// Repeated invocations within one calendar day map to the same key, so
// cache entries expire naturally at the day boundary.
func Key(identifier string, day time.Time) string {
	return Sanitize(identifier) + "_" + day.Format("2006-01-02")
}
