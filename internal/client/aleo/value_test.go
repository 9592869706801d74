package aleo

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
		want int64
	}{
		{"u64 suffix", `"1500000u64"`, true, 1500000},
		{"u8 suffix", "2u8", true, 2},
		{"u128 suffix", "340282366920938u128", true, 340282366920938},
		{"field tag", "7field", true, 7},
		{"quoted field", `"12field"`, true, 12},
		{"bare integer", "42", true, 42},
		{"whitespace", "  99u64  ", true, 99},
		{"absent", "", false, 0},
		{"garbage", "not-a-number", true, 0},
		{"empty present", "", true, 0},
		{"zero", "0u64", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseNumber(tc.raw, tc.ok)
			if got != tc.want {
				t.Fatalf("ParseNumber(%q, %v)=%d want=%d", tc.raw, tc.ok, got, tc.want)
			}
		})
	}
}

func TestParseReadingKnown(t *testing.T) {
	if r := ParseReading(`"1500000u64"`, true); !r.Known || r.Value != 1500000 {
		t.Fatalf("reading=%+v want Known=true Value=1500000", r)
	}
	// Absence and parse failure both yield an unknown zero reading; the
	// collapse to zero is only at the store boundary.
	if r := ParseReading("", false); r.Known {
		t.Fatalf("absent value must be unknown, got %+v", r)
	}
	if r := ParseReading("junk", true); r.Known {
		t.Fatalf("unparseable value must be unknown, got %+v", r)
	}
	if r := ParseReading("0u64", true); !r.Known || r.Value != 0 {
		t.Fatalf("true zero must be known, got %+v", r)
	}
}

func TestParseBool(t *testing.T) {
	if !ParseBool("true", true) {
		t.Fatalf("exact true literal must parse to true")
	}
	if !ParseBool(`"true"`, true) {
		t.Fatalf("quoted true literal must parse to true")
	}
	for _, raw := range []string{"false", "True", "1", "yes", ""} {
		if ParseBool(raw, true) {
			t.Fatalf("ParseBool(%q)=true want false", raw)
		}
	}
	if ParseBool("true", false) {
		t.Fatalf("absent value must parse to false")
	}
}
