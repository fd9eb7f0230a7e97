package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// Diagram is a fully resolved wiring diagram.
type Diagram struct {
	Layout   string `json:"layout"`
	KeyWidth int    `json:"key_width"`
	Header   Header `json:"header"`
	Rows     []Row  `json:"rows"`
}

// Header lists the column pins shown above the diagram. They are read from
// the topmost row.
type Header struct {
	Row  int   `json:"row"`
	Cols []int `json:"cols"`
	Pins []Pin `json:"pins"`
}

// Row is one grid row with its edge pins.
type Row struct {
	Index int    `json:"index"`
	Left  Pin    `json:"left"`
	Right Pin    `json:"right"`
	Cells []Cell `json:"cells"`
}

// Cell is one key of a row.
type Cell struct {
	Col     int              `json:"col"`
	Address keyboard.Address `json:"matrix"`
	// RowPin and ColPin are the raw pins of the key's own scan lines. They
	// are not translated since the text diagram only prints edge and
	// header pins.
	RowPin string `json:"row_pin"`
	ColPin string `json:"col_pin"`
}

// Pin is a raw pin identifier with its board label.
type Pin struct {
	Raw   string `json:"pin"`
	Label string `json:"label"`
}

// Build resolves and translates every pin shown in the diagram of g.
// A nil translator means [wiring.ProMicro].
func Build(g *wiring.Grid, pins keyboard.MatrixPins, t wiring.Translator) (*Diagram, error) {
	if t == nil {
		t = wiring.ProMicro
	}
	rows := g.Rows()
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeIndex, "grid is empty")
	}

	r := wiring.NewResolver(g, pins)
	d := &Diagram{
		Layout:   g.Layout,
		KeyWidth: g.KeyWidth(),
	}

	header, err := buildHeader(r, g, rows[0], t)
	if err != nil {
		return nil, err
	}
	d.Header = header

	for _, idx := range rows {
		row, err := buildRow(r, g, idx, t)
		if err != nil {
			return nil, err
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

func buildHeader(r *wiring.Resolver, g *wiring.Grid, row int, t wiring.Translator) (Header, error) {
	raw, err := r.ColPins(row)
	if err != nil {
		return Header{}, err
	}
	h := Header{Row: row, Cols: g.Cols(row), Pins: make([]Pin, len(raw))}
	for i, p := range raw {
		if h.Pins[i], err = translate(t, p); err != nil {
			return Header{}, fmt.Errorf("header column %d: %w", h.Cols[i], err)
		}
	}
	return h, nil
}

func buildRow(r *wiring.Resolver, g *wiring.Grid, idx int, t wiring.Translator) (Row, error) {
	row := Row{Index: idx}
	for _, side := range []wiring.Side{wiring.Left, wiring.Right} {
		raw, err := r.RowPin(idx, side)
		if err != nil {
			return Row{}, err
		}
		pin, err := translate(t, raw)
		if err != nil {
			return Row{}, fmt.Errorf("row %d %s pin: %w", idx, side, err)
		}
		if side == wiring.Left {
			row.Left = pin
		} else {
			row.Right = pin
		}
	}

	for i, col := range g.Cols(idx) {
		addr, _ := g.At(idx, col)
		rowPin, colPin, err := r.KeyPins(idx, i)
		if err != nil {
			return Row{}, err
		}
		row.Cells = append(row.Cells, Cell{Col: col, Address: addr, RowPin: rowPin, ColPin: colPin})
	}
	return row, nil
}

func translate(t wiring.Translator, raw string) (Pin, error) {
	label, err := t.Translate(raw)
	if err != nil {
		return Pin{}, err
	}
	return Pin{Raw: raw, Label: label}, nil
}

// WriteJSON encodes d to w with indentation.
func WriteJSON(w io.Writer, d *Diagram) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
