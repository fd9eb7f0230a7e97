package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/integrations/qmk"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/observability"
)

const twoByTwo = `{
  "layouts": {
    "LAYOUT": {"layout": [
      {"matrix": [0, 0], "x": 0, "y": 0},
      {"matrix": [0, 1], "x": 1, "y": 0},
      {"matrix": [1, 0], "x": 0, "y": 1},
      {"matrix": [1, 1], "x": 1, "y": 1}
    ]},
    "LAYOUT_alt": {"layout": [{"matrix": [1, 1], "x": 0, "y": 0}]}
  },
  "matrix_pins": {"rows": ["B0", "B1"], "cols": ["D0", "D1"]}
}`

const wantText = "         3      2 \n" +
	"         |      | \n" +
	"LED pin (left of crystal) --- (0, 0) (0, 1) --- LED pin (left of crystal)\n" +
	"15 --- (1, 0) (1, 1) --- 15\n"

func quietRunner(client *qmk.Client) *Runner {
	return NewRunner(client, log.New(io.Discard))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"none", Options{}, errors.ErrCodeUsage},
		{"both", Options{File: "a.json", Keyboard: "planck"}, errors.ErrCodeUsage},
		{"file and data", Options{File: "a.json", Data: []byte("{}")}, errors.ErrCodeUsage},
		{"bad format", Options{File: "a.json", Format: "gif"}, errors.ErrCodeInvalidInput},
		{"bad translator", Options{File: "a.json", Translator: "stm32"}, errors.ErrCodeInvalidInput},
		{"ok", Options{Keyboard: "planck"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{Data: []byte("{}")}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != FormatText || opts.Scale != 2.0 {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestExecuteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyboard.json")
	if err := os.WriteFile(path, []byte(twoByTwo), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietRunner(nil).Execute(context.Background(), Options{File: path})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if string(res.Output) != wantText {
		t.Errorf("Output =\n%s\nwant\n%s", res.Output, wantText)
	}
	if res.Stats.Keys != 4 || res.Stats.Rows != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("ContentType = %q", res.ContentType)
	}
}

func TestExecuteNamedLayout(t *testing.T) {
	res, err := quietRunner(nil).Execute(context.Background(), Options{
		Data:       []byte(twoByTwo),
		Layout:     "LAYOUT_alt",
		Translator: "raw",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(string(res.Output), "B1 --- (1, 1) --- B1") {
		t.Errorf("Output =\n%s", res.Output)
	}
	if res.Grid.Layout != "LAYOUT_alt" {
		t.Errorf("Grid.Layout = %q", res.Grid.Layout)
	}
}

func TestExecuteRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/master/keyboards/test/2x2/keyboard.json" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, twoByTwo)
	}))
	defer srv.Close()

	runner := quietRunner(qmk.NewClient(nil, qmk.WithBaseURL(srv.URL)))
	res, err := runner.Execute(context.Background(), Options{Keyboard: "test/2x2", Format: FormatJSON})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(res.Output, &decoded); err != nil {
		t.Fatalf("JSON output invalid: %v", err)
	}
	if decoded["layout"] != "LAYOUT" {
		t.Errorf("layout = %v", decoded["layout"])
	}

	_, err = runner.Execute(context.Background(), Options{Keyboard: "test/missing"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing keyboard error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed", `{"layouts": `, errors.ErrCodeParse},
		{"missing matrix_pins", `{"layouts": {"L": {"layout": [{"matrix": [0, 0], "x": 0, "y": 0}]}}}`, errors.ErrCodeSchema},
		{"no layouts", `{"layouts": {}, "matrix_pins": {"rows": ["B0"], "cols": ["D0"]}}`, errors.ErrCodeSchema},
		{"unknown pin", `{"layouts": {"L": {"layout": [{"matrix": [0, 0], "x": 0, "y": 0}]}}, "matrix_pins": {"rows": ["Z9"], "cols": ["D0"]}}`, errors.ErrCodeLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietRunner(nil).Execute(context.Background(), Options{Data: []byte(tt.data)})
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
			if res != nil {
				t.Error("Execute() returned a result on failure")
			}
		})
	}
}

func TestRenderRejectsUnknownOptions(t *testing.T) {
	doc, err := keyboard.ReadJSON(strings.NewReader(twoByTwo))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"translator", Options{Translator: "stm32"}},
		{"format", Options{Format: "bmp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietRunner(nil).Render(context.Background(), doc, tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
			if res != nil {
				t.Error("Render() returned a result on failure")
			}
		})
	}
}

func TestRenderDefaults(t *testing.T) {
	doc, err := keyboard.ReadJSON(strings.NewReader(twoByTwo))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	res, err := quietRunner(nil).Render(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if res.ContentType != ContentType(FormatText) {
		t.Errorf("ContentType = %q, want %q", res.ContentType, ContentType(FormatText))
	}
}

func TestEncodeDOT(t *testing.T) {
	res, err := quietRunner(nil).Execute(context.Background(), Options{Data: []byte(twoByTwo), Format: FormatDOT})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.HasPrefix(res.Output, []byte("graph G {")) {
		t.Errorf("Output =\n%s", res.Output)
	}
}

func TestOptionsSource(t *testing.T) {
	if got := (Options{File: "kb.json"}).Source(); got != "kb.json" {
		t.Errorf("Source() = %q", got)
	}
	if got := (Options{Keyboard: "planck"}).Source(); got != "planck" {
		t.Errorf("Source() = %q", got)
	}
	if got := (Options{Data: []byte("{}")}).Source(); got != "request body" {
		t.Errorf("Source() = %q", got)
	}
}

type recordingHooks struct {
	observability.Noop
	events []string
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, source string, layouts int, _ time.Duration, err error) {
	h.events = append(h.events, fmt.Sprintf("load %s %d %v", filepath.Base(source), layouts, err == nil))
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, layout, format string, keys int, _ time.Duration, err error) {
	h.events = append(h.events, fmt.Sprintf("render %s %s %d %v", layout, format, keys, err == nil))
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	runner := quietRunner(nil)
	if _, err := runner.Execute(context.Background(), Options{Data: []byte(twoByTwo)}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, err := runner.Execute(context.Background(), Options{Data: []byte(twoByTwo), Layout: "NOPE"}); err == nil {
		t.Fatal("Execute() with unknown layout should fail")
	}

	want := []string{
		"load request body 2 true",
		"render LAYOUT text 4 true",
		"load request body 2 true",
		"render NOPE text 0 false",
	}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}
