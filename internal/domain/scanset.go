package domain

import "strings"

// ScanSet is the operator's input: trimmed, non-empty, de-duplicated codes.
// Order of the raw submission carries no meaning; the raw text itself is
// archived separately as opaque audit data.
type ScanSet map[string]struct{}

// ParseScanSet normalizes raw newline-delimited scanner output. Blank lines
// are discarded and duplicates collapse to one entry.
func ParseScanSet(raw string) ScanSet {
	set := make(ScanSet)
	for _, line := range strings.Split(raw, "\n") {
		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// Contains reports whether code is in the set.
func (s ScanSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of distinct codes.
func (s ScanSet) Len() int { return len(s) }
