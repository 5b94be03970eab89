package ynab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlagColor is the per-transaction flag state. YNAB exposes it as a
// nullable string; the enumerated form is used everywhere inside this
// program and mapped to the wire representation only at the JSON boundary.
type FlagColor string

const (
	FlagNone   FlagColor = ""
	FlagRed    FlagColor = "red"
	FlagOrange FlagColor = "orange"
	FlagYellow FlagColor = "yellow"
	FlagGreen  FlagColor = "green"
	FlagBlue   FlagColor = "blue"
	FlagPurple FlagColor = "purple"
)

// KnownFlagColors lists every flag color YNAB supports, in UI order.
var KnownFlagColors = []FlagColor{FlagRed, FlagOrange, FlagYellow, FlagGreen, FlagBlue, FlagPurple}

// ParseFlagColor parses an external flag color string. Empty input maps
// to FlagNone; unknown colors are rejected.
func ParseFlagColor(s string) (FlagColor, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return FlagNone, nil
	}
	for _, color := range KnownFlagColors {
		if normalized == string(color) {
			return color, nil
		}
	}
	return FlagNone, fmt.Errorf("unknown flag color %q", s)
}

// String returns the wire string, "(none)" for the unflagged state.
func (f FlagColor) String() string {
	if f == FlagNone {
		return "(none)"
	}
	return string(f)
}

// MarshalJSON encodes FlagNone as null, as the YNAB API requires when
// clearing a flag.
func (f FlagColor) MarshalJSON() ([]byte, error) {
	if f == FlagNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON accepts null and arbitrary-case color strings. Unknown
// values are preserved verbatim so reporting can surface them.
func (f *FlagColor) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = FlagNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode flag color: %w", err)
	}
	*f = FlagColor(strings.ToLower(strings.TrimSpace(s)))
	return nil
}
