package aleo

import (
	"regexp"
	"strconv"
	"strings"
)

// Ledger values come back as quoted scalar literals with a type tag
// appended, e.g. `"1500000u64"` or `"2field"`.
var typeTagRe = regexp.MustCompile(`u\d+|field`)

// Reading is one mirrored numeric field. Known is false when the value
// was absent upstream or did not parse; Value is then 0. Callers that
// only need the legacy collapse-to-zero behavior can read Value
// directly.
type Reading struct {
	Value int64
	Known bool
}

// ParseReading normalizes a raw mapping value. ok=false marks an absent
// value (failed fetch or missing key) and yields an unknown reading.
func ParseReading(raw string, ok bool) Reading {
	if !ok {
		return Reading{}
	}
	s := cleanValue(raw)
	s = typeTagRe.ReplaceAllString(s, "")
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Reading{}
	}
	return Reading{Value: n, Known: true}
}

// ParseNumber is the collapse-to-zero variant: absent or unparseable
// values read as 0, indistinguishable from a true zero.
func ParseNumber(raw string, ok bool) int64 {
	return ParseReading(raw, ok).Value
}

// ParseBool recognizes only the exact literal "true"; anything else,
// including absence, is false.
func ParseBool(raw string, ok bool) bool {
	if !ok {
		return false
	}
	return cleanValue(raw) == "true"
}

func cleanValue(raw string) string {
	s := strings.ReplaceAll(raw, `"`, "")
	return strings.TrimSpace(s)
}
