// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factpack

import (
	"fmt"
	"strings"
)

// MalformedPayloadError reports that extracted text is not valid JSON.
// It is never retried.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// MissingSectionError reports the first absent required top-level section.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing required section %q", e.Section)
}

// SchemaError reports that a payload parsed but failed type or cardinality
// constraints even after repair. It embeds the last validation failures.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}
