package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cinefile/internal/services"
)

// Row is one ranked entry read from a list file.
type Row struct {
	Rank  int
	Title string
	Year  int
	// Director and RuntimeMinutes are only supplied by the header-driven layout.
	Director       string
	RuntimeMinutes int
}

// Stats describes how many data rows were read and dropped.
type Stats struct {
	Rows    int
	Skipped int
}

// Parse reads all rows from r using format. The first record is always a
// header and is never returned.
func Parse(r io.Reader, format Format) ([]Row, error) {
	rows, _, err := ParseWithStats(r, format)
	return rows, err
}

// ParseString parses CSV text.
func ParseString(text string, format Format) ([]Row, error) {
	return Parse(strings.NewReader(text), format)
}

// ParseWithStats is Parse plus a count of dropped rows.
func ParseWithStats(r io.Reader, format Format) ([]Row, Stats, error) {
	s, ok := schemas[format]
	if !ok {
		return nil, Stats{}, services.Wrap(services.ErrValidation, "csvimport", "parse",
			fmt.Sprintf("unsupported list type %q", format), nil)
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows   []Row
		stats  Stats
		cols   layout
		header = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if !header {
					stats.Skipped++
				}
				header = false
				if cols == nil {
					cols = s.fallbackLayout()
				}
				continue
			}
			return nil, stats, services.Wrap(services.ErrParse, "csvimport", "read", string(format), err)
		}
		if header {
			cols = s.resolve(record)
			header = false
			continue
		}
		row, ok := parseRecord(record, cols)
		if !ok {
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
		stats.Rows++
	}
	return rows, stats, nil
}

func parseRecord(record []string, cols layout) (Row, bool) {
	rankText, ok := cols.field(record, colRank)
	if !ok {
		return Row{}, false
	}
	rank, err := strconv.Atoi(rankText)
	if err != nil {
		return Row{}, false
	}
	title, ok := cols.field(record, colTitle)
	if !ok || title == "" {
		return Row{}, false
	}
	yearText, ok := cols.field(record, colYear)
	if !ok {
		return Row{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return Row{}, false
	}

	row := Row{Rank: rank, Title: title, Year: year}
	if director, ok := cols.field(record, colDirector); ok {
		row.Director = director
	}
	if mins, ok := cols.field(record, colRuntime); ok {
		if runtime, err := strconv.Atoi(mins); err == nil && runtime > 0 {
			row.RuntimeMinutes = runtime
		}
	}
	return row, true
}
