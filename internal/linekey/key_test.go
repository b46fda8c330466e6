package linekey

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		line       string
		number     int64
		text       string
	}{
		{"5. Banana", 5, "Banana"},
		{"123. Pineapple", 123, "Pineapple"},
		{"-5. Banana is yellow", -5, "Banana is yellow"},
		{"3147483647. Cherry is the best", 3147483647, "Cherry is the best"},
		{"hello", 0, "hello"},
		{".leading dot", 0, ".leading dot"},
		{"no dot at all here", 0, "no dot at all here"},
		{"1.   spaced", 1, "spaced"},
	}

	for _, c := range cases {
		k := Parse([]byte(c.line))
		if k.Number != c.number {
			t.Errorf("Parse(%q).Number = %d, want %d", c.line, k.Number, c.number)
		}
		if string(k.Text()) != c.text {
			t.Errorf("Parse(%q).Text() = %q, want %q", c.line, k.Text(), c.text)
		}
	}
}

func TestParseOverflowFallsBackToZero(t *testing.T) {
	// The prefix overflows int64 and is not a valid unsigned 32-bit value
	// either, so both parses fail and Number falls back to 0; the text
	// after the dot is still extracted.
	k := Parse([]byte("99999999999999999999999999. overflow"))
	if k.Number != 0 {
		t.Errorf("Number = %d, want 0 for unparsable overflow", k.Number)
	}
	if string(k.Text()) != "overflow" {
		t.Errorf("Text() = %q, want %q", k.Text(), "overflow")
	}
}
