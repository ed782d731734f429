package csvimport_test

import (
	"errors"
	"strings"
	"testing"

	"cinefile/internal/csvimport"
	"cinefile/internal/services"
)

func TestParseNYT21(t *testing.T) {
	text := "rank,title,year\n" +
		"1,Parasite,2019\n" +
		"2,\"Crouching Tiger, Hidden Dragon\",2000\n" +
		"3,  Spirited Away  ,2001\n"
	rows, err := csvimport.ParseString(text, csvimport.FormatNYT21)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].Title != "Crouching Tiger, Hidden Dragon" || rows[1].Rank != 2 || rows[1].Year != 2000 {
		t.Fatalf("quoted row mis-parsed: %+v", rows[1])
	}
	if rows[2].Title != "Spirited Away" {
		t.Fatalf("expected trimmed title, got %q", rows[2].Title)
	}
	if rows[0].Director != "" || rows[0].RuntimeMinutes != 0 {
		t.Fatalf("nyt rows should not carry director or runtime: %+v", rows[0])
	}
}

func TestParseAFIUsesLeadingColumn(t *testing.T) {
	text := "list,rank,title,year\n" +
		"AFI 2007,1,Citizen Kane,1941\n" +
		"AFI 2007,2,The Godfather,1972\n"
	rows, err := csvimport.ParseString(text, csvimport.FormatAFI)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := []csvimport.Row{
		{Rank: 1, Title: "Citizen Kane", Year: 1941},
		{Rank: 2, Title: "The Godfather", Year: 1972},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestParseFallsBackToFixedIndices(t *testing.T) {
	text := "a,b,c,d\nx,7,Vertigo,1958\n"
	rows, err := csvimport.ParseString(text, csvimport.FormatAFI)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(rows) != 1 || rows[0].Rank != 7 || rows[0].Title != "Vertigo" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestParseTSPDTResolvesHeaderOrder(t *testing.T) {
	text := "Year,Mins,Title,Pos,Director\n" +
		"1958,128,Vertigo,1,Alfred Hitchcock\n" +
		"1968,149,2001: A Space Odyssey,4,Stanley Kubrick\n" +
		"1941,n/a,Citizen Kane,2,Orson Welles\n"
	rows, err := csvimport.ParseString(text, csvimport.FormatTSPDT)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	first := csvimport.Row{Rank: 1, Title: "Vertigo", Year: 1958, Director: "Alfred Hitchcock", RuntimeMinutes: 128}
	if rows[0] != first {
		t.Fatalf("row 0 = %+v, want %+v", rows[0], first)
	}
	if rows[2].RuntimeMinutes != 0 || rows[2].Director != "Orson Welles" {
		t.Fatalf("unparsable runtime should be zero: %+v", rows[2])
	}
}

func TestParseDropsBadRows(t *testing.T) {
	text := "rank,title,year\n" +
		"1,Parasite,2019\n" +
		"two,Roma,2018\n" +
		"3,Moonlight,unknown\n" +
		"4,,2010\n" +
		"5\n" +
		"6,Zodiac,2007\n"
	rows, stats, err := csvimport.ParseWithStats(strings.NewReader(text), csvimport.FormatNYT21)
	if err != nil {
		t.Fatalf("ParseWithStats: %v", err)
	}
	if stats.Rows != 2 || stats.Skipped != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 6 {
		t.Fatalf("input order not kept: %+v", rows)
	}
}

func TestParseHeaderOnlyAndEmpty(t *testing.T) {
	for _, text := range []string{"", "rank,title,year\n"} {
		rows, err := csvimport.ParseString(text, csvimport.FormatNYT21)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", text, err)
		}
		if len(rows) != 0 {
			t.Fatalf("expected no rows for %q, got %+v", text, rows)
		}
	}
}

func TestParseRowCountMatchesLines(t *testing.T) {
	cases := map[csvimport.Format]string{
		csvimport.FormatNYT21: "rank,title,year\n1,A,2001\n2,B,2002\n3,C,2003\n",
		csvimport.FormatAFI:   "x,rank,title,year\nx,1,A,2001\nx,2,B,2002\nx,3,C,2003\n",
		csvimport.FormatTSPDT: "Pos,Title,Director,Year,Mins\n1,A,D,2001,90\n2,B,D,2002,91\n3,C,D,2003,92\n",
	}
	for format, text := range cases {
		rows, err := csvimport.ParseString(text, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		lines := strings.Count(strings.TrimSpace(text), "\n")
		if len(rows) != lines {
			t.Fatalf("%s: got %d rows, want %d", format, len(rows), lines)
		}
		for i, row := range rows {
			if row.Rank != i+1 || row.Year != 2001+i {
				t.Fatalf("%s: row %d mismatched: %+v", format, i, row)
			}
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := csvimport.ParseFormat(" CSV-TSPDT ")
	if err != nil || f != csvimport.FormatTSPDT {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
	_, err = csvimport.ParseFormat("csv-imdb")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, supported := range csvimport.Formats {
		if !strings.Contains(err.Error(), string(supported)) {
			t.Fatalf("expected %s listed in %q", supported, err)
		}
	}
	if _, err := csvimport.ParseString("a\n", csvimport.Format("bogus")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
