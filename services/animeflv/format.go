package animeflv

import (
	"fmt"
	"strings"
)

// Format selects which language tabs of an episode's server table to keep.
type Format string

const (
	FormatSubtitled Format = "subtitled"
	FormatDubbed    Format = "dubbed"
	FormatBoth      Format = "both"
)

// ParseFormat normalizes a caller-supplied format string, defaulting to
// subtitled.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "subtitled":
		return FormatSubtitled, nil
	case "dubbed":
		return FormatDubbed, nil
	case "both":
		return FormatBoth, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be subtitled, dubbed, or both", s)
	}
}

// includesTab reports whether a server-table tab ("SUB", "LAT") belongs to
// this format.
func (f Format) includesTab(tab string) bool {
	switch strings.ToUpper(strings.TrimSpace(tab)) {
	case "SUB":
		return f == FormatSubtitled || f == FormatBoth
	case "LAT":
		return f == FormatDubbed || f == FormatBoth
	default:
		return f == FormatBoth
	}
}
