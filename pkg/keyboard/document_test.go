package keyboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/qmkwire/pkg/errors"
)

const sampleJSON = `{
  "keyboard_name": "Sample",
  "processor": "atmega32u4",
  "layouts": {
    "LAYOUT_split": {"layout": [{"matrix": [0, 0], "x": 0, "y": 0}]},
    "LAYOUT_all": {"layout": [
      {"matrix": [0, 0], "x": 0, "y": 0, "label": "Esc"},
      {"matrix": [0, 1], "x": 1.5, "y": 0.25}
    ]},
    "LAYOUT": {"layout": []}
  },
  "matrix_pins": {"rows": ["B0", "B1"], "cols": ["D0", "D1"]}
}`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if doc.Name != "Sample" || doc.Processor != "atmega32u4" {
		t.Errorf("metadata = %q/%q", doc.Name, doc.Processor)
	}

	want := []string{"LAYOUT_split", "LAYOUT_all", "LAYOUT"}
	if diff := cmp.Diff(want, doc.Layouts.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	name, first, ok := doc.Layouts.First()
	if !ok || name != "LAYOUT_split" || len(first.Keys) != 1 {
		t.Errorf("First() = %q, %d keys, %v", name, len(first.Keys), ok)
	}

	all, ok := doc.Layouts.Get("LAYOUT_all")
	if !ok {
		t.Fatal("Get(LAYOUT_all) not found")
	}
	wantKeys := []Key{
		{X: 0, Y: 0, Matrix: Address{0, 0}, Label: "Esc"},
		{X: 1.5, Y: 0.25, Matrix: Address{0, 1}},
	}
	if diff := cmp.Diff(wantKeys, all.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	wantPins := &MatrixPins{Rows: []string{"B0", "B1"}, Cols: []string{"D0", "D1"}}
	if diff := cmp.Diff(wantPins, doc.MatrixPins); diff != "" {
		t.Errorf("matrix pins mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONMissingMatrixPins(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"layouts": {"L": {"layout": []}}}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if doc.MatrixPins != nil {
		t.Errorf("MatrixPins = %+v, want nil", doc.MatrixPins)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"layouts": `},
		{"layouts not object", `{"layouts": []}`},
		{"short matrix", `{"layouts": {"L": {"layout": [{"matrix": [0], "x": 0, "y": 0}]}}}`},
		{"matrix not array", `{"layouts": {"L": {"layout": [{"matrix": "0,0", "x": 0, "y": 0}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("ReadJSON() error = %v, want %s", err, errors.ErrCodeParse)
			}
		})
	}
}

func TestLayoutsAddKeepsPosition(t *testing.T) {
	var l Layouts
	l.Add("a", Layout{})
	l.Add("b", Layout{})
	l.Add("a", Layout{Keys: []Key{{X: 1}}})

	if diff := cmp.Diff([]string{"a", "b"}, l.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if a, _ := l.Get("a"); len(a.Keys) != 1 {
		t.Errorf("re-added layout not replaced: %+v", a)
	}
	if _, _, ok := (Layouts{}).First(); ok {
		t.Error("First() on empty layouts should report false")
	}
}

func TestAddress(t *testing.T) {
	a := Address{Row: 12, Col: 3}
	if got := a.String(); got != "(12, 3)" {
		t.Errorf("String() = %q, want %q", got, "(12, 3)")
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "[12,3]" {
		t.Errorf("Marshal() = %s, want [12,3]", data)
	}
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyboard.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if doc.Layouts.Len() != 3 {
		t.Errorf("Layouts.Len() = %d, want 3", doc.Layouts.Len())
	}

	missing := filepath.Join(dir, "missing.json")
	_, err = ImportJSON(missing)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
	if err != nil && strings.Count(err.Error(), missing) != 1 {
		t.Errorf("missing file error = %q, want the path exactly once", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ImportJSON(bad)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("bad file error = %v, want %s", err, errors.ErrCodeParse)
	}
}
