package wiring

import (
	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
)

// Side selects the key a row pin is read from.
type Side int

const (
	// Left reads the row pin from the first key of the row.
	Left Side = iota
	// Right reads the row pin from the last key of the row.
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Wrap reduces a matrix address component n onto a table of the given length.
// The result is always in [0, length), also for negative n.
func Wrap(n, length int) int {
	return ((n % length) + length) % length
}

// Resolver looks up the pins wired to the rows and columns of a grid.
type Resolver struct {
	grid *Grid
	pins keyboard.MatrixPins
}

// NewResolver returns a resolver over grid and pins.
func NewResolver(grid *Grid, pins keyboard.MatrixPins) *Resolver {
	return &Resolver{grid: grid, pins: pins}
}

// RowPin returns the raw pin of row, read from the row component of its
// first (Left) or last (Right) key.
func (r *Resolver) RowPin(row int, side Side) (string, error) {
	cols := r.grid.Cols(row)
	if len(cols) == 0 {
		return "", errors.New(errors.ErrCodeIndex, "row %d has no keys", row)
	}
	col := cols[0]
	if side == Right {
		col = cols[len(cols)-1]
	}
	addr, _ := r.grid.At(row, col)
	return pick(r.pins.Rows, addr.Row, "rows")
}

// ColPin returns the raw pin wired to the key at position pos of row,
// counting keys in column order.
func (r *Resolver) ColPin(row, pos int) (string, error) {
	cols := r.grid.Cols(row)
	if len(cols) == 0 {
		return "", errors.New(errors.ErrCodeIndex, "row %d has no keys", row)
	}
	if pos < 0 || pos >= len(cols) {
		return "", errors.New(errors.ErrCodeIndex, "row %d has %d keys, no position %d", row, len(cols), pos)
	}
	addr, _ := r.grid.At(row, cols[pos])
	return pick(r.pins.Cols, addr.Col, "cols")
}

// KeyPins returns the raw row and column pins of the key at position pos
// of row.
func (r *Resolver) KeyPins(row, pos int) (rowPin, colPin string, err error) {
	if colPin, err = r.ColPin(row, pos); err != nil {
		return "", "", err
	}
	addr, _ := r.grid.At(row, r.grid.Cols(row)[pos])
	if rowPin, err = pick(r.pins.Rows, addr.Row, "rows"); err != nil {
		return "", "", err
	}
	return rowPin, colPin, nil
}

// ColPins returns the raw column pin of every key of row in column order.
func (r *Resolver) ColPins(row int) ([]string, error) {
	n := len(r.grid.Cols(row))
	if n == 0 {
		return nil, errors.New(errors.ErrCodeIndex, "row %d has no keys", row)
	}
	out := make([]string, n)
	for i := range n {
		pin, err := r.ColPin(row, i)
		if err != nil {
			return nil, err
		}
		out[i] = pin
	}
	return out, nil
}

func pick(table []string, n int, name string) (string, error) {
	if len(table) == 0 {
		return "", errors.New(errors.ErrCodeIndex, "matrix_pins.%s is empty", name)
	}
	return table[Wrap(n, len(table))], nil
}
