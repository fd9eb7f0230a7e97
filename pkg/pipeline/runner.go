package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmkwire/pkg/integrations/qmk"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/observability"
	"github.com/matzehuels/qmkwire/pkg/render"
	"github.com/matzehuels/qmkwire/pkg/render/ascii"
	"github.com/matzehuels/qmkwire/pkg/render/nodelink"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// Runner executes the pipeline. It holds no per-run state, so one Runner
// may serve concurrent requests.
type Runner struct {
	Client *qmk.Client
	Logger *log.Logger
}

// NewRunner creates a runner. A nil client fetches without caching and a
// nil logger uses log.Default().
func NewRunner(client *qmk.Client, logger *log.Logger) *Runner {
	if client == nil {
		client = qmk.NewClient(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Client: client, Logger: logger}
}

// Execute runs all stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source())
	loadStart := time.Now()
	doc, cached, err := r.Load(ctx, opts)
	loadTime := time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Source(), 0, loadTime, err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, opts.Source(), doc.Layouts.Len(), loadTime, nil)

	r.Logger.Debug("loaded keyboard",
		"source", opts.Source(),
		"name", doc.Name,
		"layouts", doc.Layouts.Len(),
		"cached", cached,
		"duration", loadTime)

	result, err := r.Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Cached = cached
	result.Stats.LoadTime = loadTime
	return result, nil
}

// Render runs the stages after loading on an already decoded document.
// An unknown format or translator in opts is reported before any work is done.
func (r *Runner) Render(ctx context.Context, doc *keyboard.Document, opts Options) (result *Result, err error) {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Scale == 0 {
		opts.Scale = 2.0
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	translator, err := wiring.TranslatorByName(opts.Translator)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Layout, opts.Format)
	renderStart := time.Now()
	defer func() {
		layout, keys := opts.Layout, 0
		if result != nil {
			layout, keys = result.Grid.Layout, result.Stats.Keys
		}
		hooks.OnRenderComplete(ctx, layout, opts.Format, keys, time.Since(renderStart), err)
	}()

	result = &Result{Document: doc, ContentType: ContentType(opts.Format)}
	grid, pins, err := Extract(doc, opts.Layout)
	if err != nil {
		return nil, err
	}
	result.Grid = grid
	result.Pins = pins
	result.Stats.Keys = grid.Len()
	result.Stats.Rows = len(grid.Rows())
	result.Stats.Overwrites = grid.Overwrites

	if grid.Overwrites > 0 {
		r.Logger.Debug("keys share a grid cell, later keys win", "layout", grid.Layout, "overwritten", grid.Overwrites)
	}

	d, err := render.Build(grid, pins, translator)
	if err != nil {
		return nil, err
	}
	result.Diagram = d

	out, err := Encode(ctx, d, opts.Format, translator, opts.Scale)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered diagram",
		"layout", grid.Layout,
		"keys", result.Stats.Keys,
		"rows", result.Stats.Rows,
		"format", opts.Format,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the selected document. cached reports a cache hit for remote
// documents.
func (r *Runner) Load(ctx context.Context, opts Options) (doc *keyboard.Document, cached bool, err error) {
	switch {
	case opts.File != "":
		doc, err = keyboard.ImportJSON(opts.File)
		return doc, false, err
	case opts.Keyboard != "":
		return r.Client.Fetch(ctx, opts.Keyboard, opts.Refresh)
	default:
		doc, err = keyboard.ReadJSON(bytes.NewReader(opts.Data))
		return doc, false, err
	}
}

// Extract builds the grid of the named layout (the first one if name is
// empty) and returns it with the matrix pin tables. The pin tables are read
// first so a document without matrix_pins fails before any layout work.
func Extract(doc *keyboard.Document, name string) (*wiring.Grid, keyboard.MatrixPins, error) {
	pins, err := wiring.ExtractPinTables(doc)
	if err != nil {
		return nil, pins, err
	}

	var grid *wiring.Grid
	if name == "" {
		grid, err = wiring.ExtractLayout(doc)
	} else {
		grid, err = wiring.ExtractLayoutNamed(doc, name)
	}
	return grid, pins, err
}

// Encode renders d in format.
func Encode(ctx context.Context, d *render.Diagram, format string, t wiring.Translator, scale float64) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(ascii.String(d)), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := render.WriteJSON(&buf, d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot, err := nodelink.ToDOT(d, nodelink.Options{Translator: t})
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, scale)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
