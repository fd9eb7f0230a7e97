package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/qmkwire/pkg/pipeline"
	"github.com/matzehuels/qmkwire/pkg/wiring"
)

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
		absent []string
	}{
		{"fresh", pipeline.Stats{Keys: 42, Rows: 4}, false, []string{"42 keys", "4 rows", "fresh"}, []string{"overwritten"}},
		{"cached", pipeline.Stats{Keys: 1, Rows: 1}, true, []string{"1 keys", "1 rows", "cached"}, nil},
		{"overwrites", pipeline.Stats{Keys: 3, Rows: 1, Overwrites: 2}, false, []string{"2 overwritten"}, nil},
		{"empty", pipeline.Stats{}, false, []string{"fresh"}, []string{"keys", "rows"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summaryLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("summaryLine() = %q, missing %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("summaryLine() = %q, should not contain %q", got, a)
				}
			}
		})
	}
}

func TestStatusDrawn(t *testing.T) {
	var buf bytes.Buffer
	res := &pipeline.Result{
		Grid:   &wiring.Grid{Layout: "LAYOUT_ortho_4x12"},
		Stats:  pipeline.Stats{Keys: 48, Rows: 4},
		Cached: true,
	}
	newStatus(&buf).drawn(res, "planck.svg")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("drawn() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"Drew LAYOUT_ortho_4x12", "48 keys", "planck.svg"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, missing %q", i, lines[i], want)
		}
	}
}

func TestStatusMessages(t *testing.T) {
	var buf bytes.Buffer
	s := newStatus(&buf)
	s.note("Cache is empty")
	s.warn("backend is %q", "redis")
	s.detail("Directory: %s", "/tmp/qmkwire")

	out := buf.String()
	for _, want := range []string{"› Cache is empty", `backend is "redis"`, "  Directory: /tmp/qmkwire"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
