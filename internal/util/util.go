// Package util provides common utility functions used across the simulator.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// ParseCommandLine splits a control line into a command name and arguments.
// The first field is the command, the rest are args. Double-quoted fields
// may contain spaces. Returns ok=false for blank lines.
func ParseCommandLine(line string) (name string, args []string, ok bool) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToUpper(fields[0]), fields[1:], true
}

// splitFields splits on whitespace, keeping double-quoted runs together.
func splitFields(s string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false
	flush := func() {
		if b.Len() > 0 {
			fields = append(fields, FixEscapeQuotes(TrimQuotes(b.String())))
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return fields
}
