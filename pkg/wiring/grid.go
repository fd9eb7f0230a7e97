package wiring

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
)

// Grid maps floored key positions to matrix addresses: row → column → address.
//
// Rows and columns are kept in maps; [Grid.Rows] and [Grid.Cols] return them
// sorted so every consumer walks the grid in ascending numeric order.
type Grid struct {
	// Layout is the name of the layout the grid was built from.
	Layout string

	// Overwrites counts keys that landed on an already occupied cell and
	// replaced its address.
	Overwrites int

	cells map[int]map[int]keyboard.Address
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[int]map[int]keyboard.Address)}
}

// Set stores addr at (row, col), replacing any previous address.
// It reports whether a previous address was replaced.
func (g *Grid) Set(row, col int, addr keyboard.Address) bool {
	r, ok := g.cells[row]
	if !ok {
		r = make(map[int]keyboard.Address)
		g.cells[row] = r
	}
	_, replaced := r[col]
	r[col] = addr
	if replaced {
		g.Overwrites++
	}
	return replaced
}

// At returns the address at (row, col).
func (g *Grid) At(row, col int) (keyboard.Address, bool) {
	addr, ok := g.cells[row][col]
	return addr, ok
}

// Rows returns the occupied row indices in ascending order.
func (g *Grid) Rows() []int {
	return slices.Sorted(maps.Keys(g.cells))
}

// Cols returns the occupied column indices of row in ascending order.
func (g *Grid) Cols(row int) []int {
	return slices.Sorted(maps.Keys(g.cells[row]))
}

// Row returns the addresses of row in column order.
func (g *Grid) Row(row int) []keyboard.Address {
	cols := g.Cols(row)
	out := make([]keyboard.Address, len(cols))
	for i, c := range cols {
		out[i] = g.cells[row][c]
	}
	return out
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	n := 0
	for _, r := range g.cells {
		n += len(r)
	}
	return n
}

// KeyWidth returns the length of the longest rendered address in the grid.
func (g *Grid) KeyWidth() int {
	width := 0
	for _, r := range g.cells {
		for _, addr := range r {
			width = max(width, len(addr.String()))
		}
	}
	return width
}

// ExtractLayout builds a grid from the first layout listed in doc.
func ExtractLayout(doc *keyboard.Document) (*Grid, error) {
	name, _, ok := doc.Layouts.First()
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "document has no layouts")
	}
	return ExtractLayoutNamed(doc, name)
}

// ExtractLayoutNamed builds a grid from the named layout.
//
// Each key lands on (floor(y), floor(x)). When two keys floor onto the same
// cell the later one wins and [Grid.Overwrites] is incremented. Whether
// firmware authors rely on this for stacked keys is unconfirmed, so the
// behaviour is kept as-is.
func ExtractLayoutNamed(doc *keyboard.Document, name string) (*Grid, error) {
	layout, ok := doc.Layouts.Get(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "layout %q not found (have %v)", name, doc.Layouts.Names())
	}
	if len(layout.Keys) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "layout %q has no keys", name)
	}

	g := NewGrid()
	g.Layout = name
	for _, k := range layout.Keys {
		g.Set(int(math.Floor(k.Y)), int(math.Floor(k.X)), k.Matrix)
	}
	return g, nil
}

// ExtractPinTables returns the matrix pin tables of doc.
// Both tables must be present and non-empty since addresses index them
// modulo their length.
func ExtractPinTables(doc *keyboard.Document) (keyboard.MatrixPins, error) {
	if doc.MatrixPins == nil {
		return keyboard.MatrixPins{}, errors.New(errors.ErrCodeSchema, "matrix_pins section is missing")
	}
	if len(doc.MatrixPins.Rows) == 0 {
		return keyboard.MatrixPins{}, errors.New(errors.ErrCodeSchema, "matrix_pins.rows is empty")
	}
	if len(doc.MatrixPins.Cols) == 0 {
		return keyboard.MatrixPins{}, errors.New(errors.ErrCodeSchema, "matrix_pins.cols is empty")
	}
	return *doc.MatrixPins, nil
}
