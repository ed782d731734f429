package importer_test

import (
	"errors"
	"strings"
	"testing"

	"cinefile/internal/bundle"
	"cinefile/internal/csvimport"
	"cinefile/internal/importer"
	"cinefile/internal/services"
)

func TestDecodeManifestDefaults(t *testing.T) {
	m, err := importer.DecodeManifest(strings.NewReader(`{"lists":[
		{"id":"a","name":"A","type":"csv-nyt21","resource":"a"},
		{"id":"b","name":"B","type":"csv-afi","resource":"b.txt","preload":false}
	]}`))
	if err != nil {
		t.Fatalf("DecodeManifest: %v", err)
	}
	a, _ := m.Find("a")
	b, _ := m.Find("b")
	if !a.ShouldPreload() || b.ShouldPreload() {
		t.Fatalf("unexpected preload flags a=%v b=%v", a.ShouldPreload(), b.ShouldPreload())
	}
	if a.ResourcePath() != "a.csv" || b.ResourcePath() != "b.txt" {
		t.Fatalf("unexpected resource paths %q %q", a.ResourcePath(), b.ResourcePath())
	}
	if format, _ := a.Format(); format != csvimport.FormatNYT21 {
		t.Fatalf("unexpected format %q", format)
	}
}

func TestDecodeManifestRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"malformed":    `{"lists": [`,
		"empty id":     `{"lists":[{"id":"","type":"csv-afi","resource":"x"}]}`,
		"duplicate id": `{"lists":[{"id":"a","type":"csv-afi","resource":"x"},{"id":"a","type":"csv-afi","resource":"y"}]}`,
		"bad type":     `{"lists":[{"id":"a","type":"xlsx","resource":"x"}]}`,
		"no resource":  `{"lists":[{"id":"a","type":"csv-afi"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := importer.DecodeManifest(strings.NewReader(body)); !errors.Is(err, services.ErrDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
		})
	}
}

func TestBundledManifestLoads(t *testing.T) {
	src := bundle.FS()
	m, err := importer.LoadManifest(src)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Lists) == 0 {
		t.Fatal("bundled manifest has no lists")
	}
	for _, l := range m.Lists {
		rows, _, err := importer.LoadRows(src, l)
		if err != nil {
			t.Fatalf("LoadRows(%s): %v", l.ID, err)
		}
		if len(rows) == 0 {
			t.Fatalf("list %s has no rows", l.ID)
		}
	}
}
