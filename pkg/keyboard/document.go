package keyboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a parsed keyboard.json.
type Document struct {
	Name         string      `json:"keyboard_name,omitempty"`
	Manufacturer string      `json:"manufacturer,omitempty"`
	Processor    string      `json:"processor,omitempty"`
	Layouts      Layouts     `json:"layouts"`
	MatrixPins   *MatrixPins `json:"matrix_pins,omitempty"`
}

// Layout is one named arrangement of keys.
type Layout struct {
	Keys []Key `json:"layout"`
}

// Key is a single key: its physical position in key units and the matrix
// address it closes when pressed.
type Key struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Matrix Address `json:"matrix"`
	Label  string  `json:"label,omitempty"`
}

// MatrixPins holds the raw pin identifiers wired to each matrix row and column.
type MatrixPins struct {
	Rows []string `json:"rows"`
	Cols []string `json:"cols"`
}

// Address is a (row, column) pair identifying the scan lines a key is wired to.
type Address struct {
	Row int
	Col int
}

// String renders the address as "(row, col)", the form printed in diagrams.
func (a Address) String() string {
	return "(" + strconv.Itoa(a.Row) + ", " + strconv.Itoa(a.Col) + ")"
}

// UnmarshalJSON decodes the two-element array form used by keyboard.json.
func (a *Address) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("matrix address: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("matrix address: want 2 elements, got %d", len(pair))
	}
	a.Row, a.Col = pair[0], pair[1]
	return nil
}

// MarshalJSON encodes the address as a two-element array.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{a.Row, a.Col})
}

// Layouts is an insertion-ordered set of named layouts.
// The zero value is empty and ready to use.
type Layouts struct {
	names  []string
	byName map[string]Layout
}

// Add appends a layout. Re-adding an existing name replaces its keys but
// keeps its original position.
func (l *Layouts) Add(name string, layout Layout) {
	if l.byName == nil {
		l.byName = make(map[string]Layout)
	}
	if _, ok := l.byName[name]; !ok {
		l.names = append(l.names, name)
	}
	l.byName[name] = layout
}

// Len returns the number of layouts.
func (l Layouts) Len() int { return len(l.names) }

// Names returns layout names in document order.
func (l Layouts) Names() []string {
	return append([]string(nil), l.names...)
}

// Get returns the layout with the given name.
func (l Layouts) Get(name string) (Layout, bool) {
	layout, ok := l.byName[name]
	return layout, ok
}

// First returns the layout listed first in the document.
func (l Layouts) First() (string, Layout, bool) {
	if len(l.names) == 0 {
		return "", Layout{}, false
	}
	name := l.names[0]
	return name, l.byName[name], true
}

// UnmarshalJSON decodes a JSON object while recording key order, which a
// plain map would lose.
func (l *Layouts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = Layouts{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("layouts: want object, got %v", tok)
	}

	*l = Layouts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("layouts: unexpected key %v", tok)
		}
		var layout Layout
		if err := dec.Decode(&layout); err != nil {
			return fmt.Errorf("layout %s: %w", name, err)
		}
		l.Add(name, layout)
	}
	_, err = dec.Token()
	return err
}
