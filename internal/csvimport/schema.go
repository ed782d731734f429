package csvimport

import (
	"fmt"
	"strings"

	"cinefile/internal/services"
)

// Format names a CSV layout. Values match the manifest "type" field.
type Format string

const (
	FormatNYT21 Format = "csv-nyt21"
	FormatAFI   Format = "csv-afi"
	FormatTSPDT Format = "csv-tspdt"
)

// Formats lists every supported layout.
var Formats = []Format{FormatNYT21, FormatAFI, FormatTSPDT}

// ParseFormat converts a manifest type string into a Format.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schemas[f]; ok {
		return f, nil
	}
	return "", services.Wrap(services.ErrValidation, "csvimport", "parse format",
		fmt.Sprintf("unsupported list type %q (supported: %s)", raw, formatNames()), nil)
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

type column int

const (
	colRank column = iota
	colTitle
	colYear
	colDirector
	colRuntime
)

type columnSpec struct {
	col      column
	aliases  []string
	fallback int
	required bool
}

type schema struct {
	columns []columnSpec
}

var schemas = map[Format]schema{
	FormatNYT21: {columns: []columnSpec{
		{col: colRank, aliases: []string{"rank", "pos", "#"}, fallback: 0, required: true},
		{col: colTitle, aliases: []string{"title", "film"}, fallback: 1, required: true},
		{col: colYear, aliases: []string{"year"}, fallback: 2, required: true},
	}},
	FormatAFI: {columns: []columnSpec{
		{col: colRank, aliases: []string{"rank", "pos", "#"}, fallback: 1, required: true},
		{col: colTitle, aliases: []string{"title", "film"}, fallback: 2, required: true},
		{col: colYear, aliases: []string{"year"}, fallback: 3, required: true},
	}},
	FormatTSPDT: {columns: []columnSpec{
		{col: colRank, aliases: []string{"pos", "rank"}, fallback: 0, required: true},
		{col: colTitle, aliases: []string{"title", "film"}, fallback: 1, required: true},
		{col: colDirector, aliases: []string{"director", "directors"}, fallback: 2},
		{col: colYear, aliases: []string{"year"}, fallback: 3, required: true},
		{col: colRuntime, aliases: []string{"mins", "runtime", "minutes"}, fallback: 4},
	}},
}

// layout maps each column to its record index for one file.
type layout map[column]int

// resolve finds column positions from the header. When the header does not
// name a required column the whole layout falls back to fixed indices, since
// a partial match means the first line is data or an unrelated header.
func (s schema) resolve(header []string) layout {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	resolved := make(layout, len(s.columns))
	for _, spec := range s.columns {
		idx, ok := lookup(byName, spec.aliases)
		if !ok {
			if spec.required {
				return s.fallbackLayout()
			}
			continue
		}
		resolved[spec.col] = idx
	}
	return resolved
}

func (s schema) fallbackLayout() layout {
	out := make(layout, len(s.columns))
	for _, spec := range s.columns {
		out[spec.col] = spec.fallback
	}
	return out
}

func lookup(byName map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if idx, ok := byName[alias]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (l layout) field(record []string, col column) (string, bool) {
	idx, ok := l[col]
	if !ok || idx < 0 || idx >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}
