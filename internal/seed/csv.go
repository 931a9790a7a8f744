package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrFieldCount is reported for rows that are neither "name,address" nor
// "name,address,latitude,longitude".
var ErrFieldCount = errors.New("row must have 2 or 4 fields")

// Row is a single school read from an import file. Latitude and Longitude are nil
// when the row carries no coordinates and has to be geocoded.
type Row struct {
	Line      int
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
	Err       error // Err is set when the row could not be parsed.
}

// ReadFile reads the import file at path.
func ReadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses comma separated rows of name,address[,latitude,longitude].
// A leading header row whose first field is "name" is skipped. Lines starting
// with '#' are comments. Malformed rows are returned with Err set, so that a
// single bad line does not abort the whole import.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var rows []Row
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(record[0]), "name") {
				continue
			}
		}

		rows = append(rows, parseRecord(line, record))
	}

	return rows, nil
}

func parseRecord(line int, record []string) Row {
	row := Row{Line: line}

	switch len(record) {
	case 2, 4:
	default:
		row.Err = fmt.Errorf("line %d: %w, got %d", line, ErrFieldCount, len(record))
		return row
	}

	row.Name = strings.TrimSpace(record[0])
	row.Address = strings.TrimSpace(record[1])
	if len(record) == 2 {
		return row
	}

	rawLat, rawLon := strings.TrimSpace(record[2]), strings.TrimSpace(record[3])
	if rawLat == "" && rawLon == "" {
		return row
	}
	if rawLat == "" || rawLon == "" {
		row.Err = fmt.Errorf("line %d: latitude and longitude must be given together", line)
		return row
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		row.Err = fmt.Errorf("line %d: latitude %q is not a number", line, rawLat)
		return row
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		row.Err = fmt.Errorf("line %d: longitude %q is not a number", line, rawLon)
		return row
	}

	row.Latitude, row.Longitude = &lat, &lon

	return row
}
