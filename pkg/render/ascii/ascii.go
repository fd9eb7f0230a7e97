// Package ascii prints a wiring [render.Diagram] as monospaced text.
//
// The header lists the translated column pins of the topmost row with a line
// of "|" connectors under them. Each row then shows its left pin, a short
// connector, the matrix addresses of its keys, another connector and its
// right pin:
//
//	         3      2
//	         |      |
//	15 --- (0, 0) (0, 1) --- 15
//
// Every field is KeyWidth characters wide plus one separating space. A gap
// between two column indices leaves one blank field per missing column, so
// staggered or split boards keep their physical spacing.
package ascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/qmkwire/pkg/render"
)

// headerIndent is the fixed left margin of the two header lines.
const headerIndent = 4

// Render writes the text diagram of d to w.
func Render(w io.Writer, d *render.Diagram) error {
	_, err := io.WriteString(w, String(d))
	return err
}

// String returns the text diagram of d.
func String(d *render.Diagram) string {
	var b strings.Builder
	kw := d.KeyWidth

	labels := make([]string, len(d.Header.Pins))
	bars := make([]string, len(d.Header.Pins))
	for i, p := range d.Header.Pins {
		labels[i] = p.Label
		bars[i] = "|"
	}
	writeHeaderLine(&b, d.Header.Cols, labels, kw)
	writeHeaderLine(&b, d.Header.Cols, bars, kw)

	for _, row := range d.Rows {
		writeRow(&b, row, kw)
	}
	return b.String()
}

func writeHeaderLine(b *strings.Builder, cols []int, fields []string, kw int) {
	b.WriteString(blank(headerIndent))
	for i, f := range fields {
		if i > 0 {
			b.WriteString(gap(cols[i]-cols[i-1], kw))
		}
		fmt.Fprintf(b, "%*s ", kw, f)
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, row render.Row, kw int) {
	wire := strings.Repeat("-", kw/2)
	for i, c := range row.Cells {
		if i == 0 {
			b.WriteString(blank((kw + 1) * c.Col))
			fmt.Fprintf(b, "%s %s ", row.Left.Label, wire)
		} else {
			b.WriteString(gap(c.Col-row.Cells[i-1].Col, kw))
		}
		fmt.Fprintf(b, "%*s ", kw, c.Address.String())
	}
	fmt.Fprintf(b, "%s %s\n", wire, row.Right.Label)
}

// gap returns the padding for a step of offset columns: one blank field
// per column skipped.
func gap(offset, kw int) string {
	return blank((kw + 1) * (offset - 1))
}

func blank(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
