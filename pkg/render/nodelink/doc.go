// Package nodelink renders a wiring diagram as a Graphviz node-link graph.
//
// Every matrix row pin and column pin becomes a box, every key a small
// ellipse labelled with its matrix address, and each key is connected to the
// row and column lines it closes. Pins are shown with their board labels.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG], which convert the
// SVG through [render.ToPDF] and [render.ToPNG].
package nodelink
