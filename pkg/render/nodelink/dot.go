package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/qmkwire/pkg/render"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// Options configures node-link rendering.
type Options struct {
	// Translator labels the pins. Nil means [wiring.ProMicro].
	Translator wiring.Translator
}

// ToDOT converts a diagram to Graphviz DOT source.
// It fails if a pin has no label in the translator.
func ToDOT(d *render.Diagram, opts Options) (string, error) {
	t := opts.Translator
	if t == nil {
		t = wiring.ProMicro
	}

	var rowPins, colPins []string
	for _, row := range d.Rows {
		for _, c := range row.Cells {
			if !slices.Contains(rowPins, c.RowPin) {
				rowPins = append(rowPins, c.RowPin)
			}
			if !slices.Contains(colPins, c.ColPin) {
				colPins = append(colPins, c.ColPin)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14];\n")
	buf.WriteString("\n")

	for _, group := range []struct {
		prefix string
		pins   []string
		color  string
	}{
		{"row", rowPins, "lightblue"},
		{"col", colPins, "lightyellow"},
	} {
		for _, p := range group.pins {
			label, err := t.Translate(p)
			if err != nil {
				return "", fmt.Errorf("%s pin: %w", group.prefix, err)
			}
			fmt.Fprintf(&buf, "  %q [shape=box, style=filled, fillcolor=%s, label=%q];\n",
				group.prefix+":"+p, group.color, p+"\n"+label)
		}
	}

	buf.WriteString("\n")
	for _, row := range d.Rows {
		for _, c := range row.Cells {
			id := keyID(row.Index, c.Col)
			fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", id, c.Address.String())
			fmt.Fprintf(&buf, "  %q -- %q;\n", "row:"+c.RowPin, id)
			fmt.Fprintf(&buf, "  %q -- %q;\n", id, "col:"+c.ColPin)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func keyID(row, col int) string {
	return "key:" + strconv.Itoa(row) + "," + strconv.Itoa(col)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
