package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/pipeline"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

// sourceFlags selects the keyboard document.
type sourceFlags struct {
	file     string
	keyboard string
	noCache  bool
	refresh  bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "local keyboard.json")
	cmd.Flags().StringVarP(&f.keyboard, "path", "p", "", "keyboard path in the QMK repository (e.g. crkbd/rev1)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not read or write the document cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "fetch again even if the document is cached")
	cmd.MarkFlagFilename("file", "json")
}

// validate reports a USAGE error unless exactly one source was given.
func (f *sourceFlags) validate() error {
	switch {
	case f.file == "" && f.keyboard == "":
		return errors.New(errors.ErrCodeUsage, "one of --file or --path is required")
	case f.file != "" && f.keyboard != "":
		return errors.New(errors.ErrCodeUsage, "--file and --path cannot be combined")
	}
	return nil
}

// options returns pipeline options that only select the document.
func (f *sourceFlags) options() pipeline.Options {
	return pipeline.Options{File: f.file, Keyboard: f.keyboard, Refresh: f.refresh}
}

// drawFlags holds the flags of "draw" and the root command.
type drawFlags struct {
	sourceFlags
	layout string
	format string
	output string
	pick   bool
	raw    bool
}

func (f *drawFlags) register(cmd *cobra.Command) {
	f.sourceFlags.register(cmd)
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout to draw (default: the first one)")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: text, json, dot, svg, pdf, png (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&f.pick, "pick", false, "choose the layout interactively")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "print raw pin identifiers instead of Pro Micro labels")
	cmd.MarkFlagsMutuallyExclusive("layout", "pick")
	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// options merges the flags with the configured defaults.
func (f *drawFlags) options(c *CLI) pipeline.Options {
	opts := f.sourceFlags.options()
	opts.Layout = f.layout
	opts.Format = f.format
	opts.Translator = c.Config.Render.Translator
	if opts.Format == "" {
		opts.Format = c.Config.Render.Format
	}
	if f.raw {
		opts.Translator = wiring.TranslatorRaw
	}
	return opts
}

// drawCommand creates the draw command.
func (c *CLI) drawCommand() *cobra.Command {
	flags := &drawFlags{}
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the wiring diagram of a keyboard layout",
		Long: `Draw the switch matrix of one layout of a keyboard.

The text diagram has one line per matrix row: the row pin on both sides and
the matrix address of every key in between, placed at the key's column in the
physical layout. The header names the column pins of the top row.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runDraw(cmd *cobra.Command, flags *drawFlags) error {
	if err := flags.validate(); err != nil {
		_ = cmd.Usage()
		return err
	}
	ctx := cmd.Context()

	runner, store, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := flags.options(c)
	if err := opts.Validate(); err != nil {
		return err
	}

	var result *pipeline.Result
	if flags.pick {
		result, err = c.drawPicked(ctx, newStatus(cmd.OutOrStdout()), runner, opts)
	} else {
		result, err = c.drawWithSpinner(ctx, runner, opts)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	if flags.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}
	if err := os.WriteFile(flags.output, result.Output, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", flags.output)
	}
	newStatus(cmd.OutOrStdout()).drawn(result, flags.output)
	return nil
}

// drawWithSpinner executes the pipeline, showing a spinner while a remote
// document is fetched.
func (c *CLI) drawWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if opts.Keyboard == "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		return runner.Execute(ctx, opts)
	}

	spinner := newFetchSpinner(ctx, os.Stderr, opts.Keyboard)
	spinner.start()
	result, err := runner.Execute(ctx, opts)
	spinner.stop()
	return result, err
}

// drawPicked loads the document, lets the user choose a layout and renders
// it. A nil result means the picker was cancelled.
func (c *CLI) drawPicked(ctx context.Context, st status, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	doc, cached, err := c.loadDocument(ctx, runner, opts)
	if err != nil {
		return nil, err
	}

	name, err := pickLayout(doc)
	if err != nil {
		return nil, err
	}
	if name == "" {
		st.note("No layout selected")
		return nil, nil
	}

	opts.Layout = name
	result, err := runner.Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Cached = cached
	return result, nil
}

func (c *CLI) loadDocument(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*keyboard.Document, bool, error) {
	prog := newProgress(c.Logger)
	doc, cached, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	c.Logger.Debug("loaded", "source", opts.Source(), "layouts", doc.Layouts.Len())
	if opts.Keyboard != "" && !cached {
		prog.done("Fetched %s", opts.Keyboard)
	}
	return doc, cached, nil
}
