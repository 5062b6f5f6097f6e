package geo

import (
	"regexp"
	"strings"
)

// trailingState matches inputs like "Austin TX" or "Austin,TX" — any text
// followed by a terminal two-letter token.
var trailingState = regexp.MustCompile(`^(.*?)[\s,]+([A-Za-z]{2})$`)

// Index resolves free-text locations and (city, state) pairs to coordinates.
// It is built once during startup and never mutated afterwards, so it is safe
// to share across concurrent requests without locking.
type Index struct {
	exact    map[string]Coordinate // normalize(city)|STATE
	nameOnly map[string]Coordinate // normalize(city)
}

// NewIndex builds both lookup maps from the reference rows. The first
// occurrence of a key wins in both maps; for city names shared by several
// states ("Springfield") this makes resolution order-dependent by design —
// the reference table's order is part of the contract.
func NewIndex(rows []CityCoordinate) *Index {
	idx := &Index{
		exact:    make(map[string]Coordinate, len(rows)),
		nameOnly: make(map[string]Coordinate, len(rows)),
	}

	for _, row := range rows {
		coord := Coordinate{Lat: row.Lat, Lng: row.Lng}
		name := normalize(row.City)
		if name == "" {
			continue
		}

		exactKey := name + "|" + strings.ToUpper(strings.TrimSpace(row.State))
		if _, ok := idx.exact[exactKey]; !ok {
			idx.exact[exactKey] = coord
		}
		if _, ok := idx.nameOnly[name]; !ok {
			idx.nameOnly[name] = coord
		}
	}

	return idx
}

// Resolve parses a free-text "city, state" / "city state" / "city" string and
// returns its coordinate. Resolution order: exact city+state via comma split,
// exact city+state via trailing two-letter token, then city-name-only
// fallback. Returns false when nothing matches.
func (idx *Index) Resolve(text string) (Coordinate, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Coordinate{}, false
	}

	if city, state, ok := splitCityState(trimmed); ok {
		if coord, found := idx.CityState(city, state); found {
			return coord, true
		}
	}

	coord, found := idx.nameOnly[normalize(trimmed)]
	return coord, found
}

// CityState looks up the exact (city, state) key only — no name fallback.
// Candidate rows always carry both fields, so the fallback would only mask
// reference-table gaps.
func (idx *Index) CityState(city, state string) (Coordinate, bool) {
	key := normalize(city) + "|" + strings.ToUpper(strings.TrimSpace(state))
	coord, found := idx.exact[key]
	return coord, found
}

// Len reports the number of exact (city, state) entries.
func (idx *Index) Len() int {
	return len(idx.exact)
}

func splitCityState(text string) (city, state string, ok bool) {
	if i := strings.Index(text, ","); i >= 0 {
		city = text[:i]
		rest := strings.TrimSpace(text[i+1:])
		if len(rest) >= 2 {
			return city, rest[:2], true
		}
		return "", "", false
	}

	if m := trailingState.FindStringSubmatch(text); m != nil {
		return m[1], m[2], true
	}

	return "", "", false
}

// normalize lowercases, trims, strips periods, and collapses internal
// whitespace, making "St. Louis" and "st  louis" equivalent keys.
func normalize(city string) string {
	lowered := strings.ToLower(strings.TrimSpace(city))
	lowered = strings.ReplaceAll(lowered, ".", "")
	return strings.Join(strings.Fields(lowered), " ")
}
