package sanitize

import (
	"strings"
	"testing"
)

func TestSearchTerm_StripsLikeMetacharacters(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"vinyl%wrap", "vinylwrap"},
		{"tint_shop", "tintshop"},
		{`"quoted"`, "quoted"},
		{"O'Brien & Sons", "O'Brien & Sons"},
		{"St. Louis", "St. Louis"},
		{"ppf; DROP TABLE jobs", "ppf DROP TABLE jobs"},
		{"  detailing  ", "detailing"},
	}

	for _, tc := range cases {
		if got := SearchTerm(tc.input, 0); got != tc.want {
			t.Errorf("SearchTerm(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSearchTerm_Truncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	if got := SearchTerm(long, 0); len(got) != DefaultSearchTermLength {
		t.Fatalf("expected default truncation to %d, got %d", DefaultSearchTermLength, len(got))
	}
	if got := SearchTerm(long, 40); len(got) != 40 {
		t.Fatalf("expected truncation to 40, got %d", len(got))
	}
}

func TestPlainText_StripsNUL(t *testing.T) {
	if got := PlainText("hello\x00world", 0); got != "helloworld" {
		t.Fatalf("PlainText = %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	if got := StripHTML("<b>bold</b> text"); got != "bold text" {
		t.Fatalf("StripHTML = %q", got)
	}
	if got := StripHTML("&lt;script&gt;alert(1)&lt;/script&gt;"); got != "alert(1)" {
		t.Fatalf("StripHTML encoded = %q", got)
	}
}
