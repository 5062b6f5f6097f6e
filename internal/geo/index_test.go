package geo

import "testing"

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := LoadIndex()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	return idx
}

func TestResolveFormats(t *testing.T) {
	idx := testIndex(t)

	want, ok := idx.CityState("Austin", "TX")
	if !ok {
		t.Fatal("expected Austin, TX in reference table")
	}

	inputs := []string{
		"Austin, TX",
		"Austin,TX",
		"Austin TX",
		"austin, tx",
		"  Austin , TX ",
		"Austin",
	}
	for _, input := range inputs {
		got, ok := idx.Resolve(input)
		if !ok {
			t.Fatalf("Resolve(%q): no match", input)
		}
		if got != want {
			t.Fatalf("Resolve(%q) = %+v, want %+v", input, got, want)
		}
	}
}

func TestResolveMultiWordCity(t *testing.T) {
	idx := testIndex(t)

	got, ok := idx.Resolve("St. Louis, MO")
	if !ok {
		t.Fatal("expected match for St. Louis, MO")
	}
	alt, ok := idx.Resolve("st louis mo")
	if !ok {
		t.Fatal("expected match for st louis mo")
	}
	if got != alt {
		t.Fatalf("period-stripped lookup diverged: %+v vs %+v", got, alt)
	}
}

func TestResolveUnknownLocation(t *testing.T) {
	idx := testIndex(t)

	for _, input := range []string{"Nowhereville, ZZ", "Atlantis", "", "   "} {
		if _, ok := idx.Resolve(input); ok {
			t.Fatalf("Resolve(%q): expected no match", input)
		}
	}
}

func TestResolveWrongStateFallsBackToName(t *testing.T) {
	idx := testIndex(t)

	// "Austin, CA" has no exact entry; the name-only fallback still
	// resolves to the first Austin in the table.
	got, ok := idx.Resolve("Austin, CA")
	if !ok {
		t.Fatal("expected name-only fallback to match")
	}
	want, _ := idx.CityState("Austin", "TX")
	if got != want {
		t.Fatalf("fallback = %+v, want %+v", got, want)
	}
}

func TestAmbiguousNameFirstRowWins(t *testing.T) {
	rows := []CityCoordinate{
		{City: "Springfield", State: "IL", Lat: 39.7817, Lng: -89.6501},
		{City: "Springfield", State: "MO", Lat: 37.2090, Lng: -93.2923},
		{City: "Springfield", State: "MA", Lat: 42.1015, Lng: -72.5898},
	}
	idx := NewIndex(rows)

	got, ok := idx.Resolve("Springfield")
	if !ok {
		t.Fatal("expected name-only match")
	}
	if got != (Coordinate{Lat: 39.7817, Lng: -89.6501}) {
		t.Fatalf("expected first row to win, got %+v", got)
	}

	// Exact lookups still distinguish the states.
	mo, ok := idx.CityState("Springfield", "MO")
	if !ok || mo != (Coordinate{Lat: 37.2090, Lng: -93.2923}) {
		t.Fatalf("Springfield MO = %+v ok=%v", mo, ok)
	}
}

func TestCityStateExactOnly(t *testing.T) {
	idx := testIndex(t)

	if _, ok := idx.CityState("Austin", "CA"); ok {
		t.Fatal("exact lookup must not fall back to name-only")
	}
	if coord, ok := idx.CityState("austin", "tx"); !ok || coord == (Coordinate{}) {
		t.Fatalf("exact lookup should be case-insensitive, got ok=%v", ok)
	}
}
