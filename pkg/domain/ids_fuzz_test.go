package domain

import (
	"testing"
)

// FuzzParseYearID checks that parsing never panics on arbitrary input
// and that every accepted value round-trips through String.
func FuzzParseYearID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")

	f.Fuzz(func(t *testing.T, input string) {
		yearID, err := ParseYearID(input)
		if err != nil {
			return
		}
		if yearID.IsZero() {
			t.Errorf("ParseYearID(%q) accepted the nil UUID", input)
		}
		reparsed, err := ParseYearID(yearID.String())
		if err != nil {
			t.Errorf("round-trip of %q failed: %v", input, err)
		}
		if reparsed != yearID {
			t.Errorf("round-trip of %q changed value", input)
		}
	})
}
