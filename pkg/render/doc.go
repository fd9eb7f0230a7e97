// Package render turns a keyboard grid into a resolved wiring [Diagram] and
// provides the output formats shared by the renderers.
//
// # Overview
//
// [Build] walks a [wiring.Grid] in ascending row and column order, resolves
// every row pin and column pin through a [wiring.Resolver], and translates
// the pins that appear in the diagram through a [wiring.Translator]. The
// result is a plain value that renderers only read:
//
//   - [ascii]: the monospaced text diagram
//   - [nodelink]: a Graphviz view of rows, columns and keys
//   - [WriteJSON]: the diagram itself as JSON
//
// Any resolution or translation failure aborts [Build], so renderers never
// see a partial diagram.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert
// tool (from librsvg).
//
//	d, err := render.Build(grid, pins, wiring.ProMicro)
//	text, err := ascii.String(d)
//
// [ascii]: github.com/matzehuels/qmkwire/pkg/render/ascii
// [nodelink]: github.com/matzehuels/qmkwire/pkg/render/nodelink
package render
