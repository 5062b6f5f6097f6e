package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"(512) 555-0134", "+15125550134"},
		{"512-555-0134", "+15125550134"},
		{"+1 512 555 0134", "+15125550134"},
	}

	for _, tc := range cases {
		got, err := NormalizeE164(tc.input)
		if err != nil {
			t.Errorf("NormalizeE164(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeE164Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a number", "123"} {
		if _, err := NormalizeE164(input); err == nil {
			t.Errorf("NormalizeE164(%q) expected error, got none", input)
		}
	}
}
