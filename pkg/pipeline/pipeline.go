// Package pipeline runs the load → extract → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a local keyboard.json, decode an uploaded one, or fetch
//     one from the QMK repository through a cached [qmk.Client]
//  2. Extract: floor the selected layout onto a [wiring.Grid] and read the
//     matrix pin tables
//  3. Render: resolve and translate pins into a [render.Diagram] and encode
//     it in the requested format
//
// Every stage either succeeds completely or returns an error; no partial
// output is produced.
//
// # Usage
//
//	runner := pipeline.NewRunner(qmk.NewClient(store), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Keyboard: "handwired/dactyl_manuform/4x5",
//	    Format:   pipeline.FormatText,
//	})
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/render"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

var contentTypes = map[string]string{
	FormatText: "text/plain; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatPNG:  "image/png",
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	return contentTypes[format]
}

// ValidateFormat checks that format is one of [Formats].
func ValidateFormat(format string) error {
	if slices.Contains(Formats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// Options selects the input document and how to render it.
type Options struct {
	// Exactly one of File, Keyboard or Data names the document.
	File     string // local keyboard.json path
	Keyboard string // keyboard path in the QMK repository
	Data     []byte // keyboard.json contents

	Layout     string // layout name; empty selects the first layout
	Format     string // output format; empty means text
	Translator string // pin translator name; empty means promicro
	Refresh    bool   // bypass the cache for remote documents
	Scale      float64
}

// Validate checks the input selection and output settings.
// Selecting no document or more than one is a USAGE error.
func (o *Options) Validate() error {
	n := 0
	for _, set := range []bool{o.File != "", o.Keyboard != "", o.Data != nil} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New(errors.ErrCodeUsage, "one of a local file or a keyboard path is required")
	case n > 1:
		return errors.New(errors.ErrCodeUsage, "a local file and a keyboard path cannot be combined")
	}

	if o.Format == "" {
		o.Format = FormatText
	}
	if o.Scale == 0 {
		o.Scale = 2.0
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	_, err := wiring.TranslatorByName(o.Translator)
	return err
}

// Source describes where the document came from, for logs and UIs.
func (o Options) Source() string {
	switch {
	case o.File != "":
		return o.File
	case o.Keyboard != "":
		return o.Keyboard
	default:
		return "request body"
	}
}

// Result holds every intermediate value of a run.
type Result struct {
	Document    *keyboard.Document
	Grid        *wiring.Grid
	Pins        keyboard.MatrixPins
	Diagram     *render.Diagram
	Output      []byte
	ContentType string
	Cached      bool
	Stats       Stats
}

// Stats records sizes and stage durations.
type Stats struct {
	Keys       int
	Rows       int
	Overwrites int
	LoadTime   time.Duration
	RenderTime time.Duration
}
