package geo

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

//go:embed us_cities.csv
var citiesCSV []byte

// LoadIndex parses the embedded US city reference table and builds the
// lookup index. The table ships inside the binary, so a load failure means
// a broken build rather than a runtime condition.
func LoadIndex() (*Index, error) {
	rows, err := parseCities(citiesCSV)
	if err != nil {
		return nil, fmt.Errorf("geo: load city table: %w", err)
	}
	return NewIndex(rows), nil
}

func parseCities(data []byte) ([]CityCoordinate, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 4

	// header
	if _, err := r.Read(); err != nil {
		return nil, err
	}

	var rows []CityCoordinate
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		lat, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude %q: %w", line, record[2], err)
		}
		lng, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude %q: %w", line, record[3], err)
		}

		rows = append(rows, CityCoordinate{
			City:  record[0],
			State: record[1],
			Lat:   lat,
			Lng:   lng,
		})
	}

	return rows, nil
}
