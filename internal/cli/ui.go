package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/qmkwire/pkg/pipeline"
)

// Palette shared by status lines, the pin table and the layout picker.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the picker title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	stylePath    = lipgloss.NewStyle().Foreground(colorWhite)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// status writes one-line, icon-prefixed messages about what a command did.
// The rendered diagram never goes through it.
type status struct {
	w io.Writer
}

func newStatus(w io.Writer) status { return status{w: w} }

func (s status) emit(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintf(s.w, "%s %s\n", icon.Render(glyph), msg)
}

func (s status) ok(format string, args ...any) {
	s.emit(styleOK, "✓", fmt.Sprintf(format, args...))
}

func (s status) warn(format string, args ...any) {
	s.emit(styleWarn, "!", styleWarn.Render(fmt.Sprintf(format, args...)))
}

func (s status) note(format string, args ...any) {
	s.emit(styleNote, "›", fmt.Sprintf(format, args...))
}

func (s status) detail(format string, args ...any) {
	fmt.Fprintf(s.w, "  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// drawn reports a diagram written to path.
func (s status) drawn(res *pipeline.Result, path string) {
	s.ok("Drew %s", res.Grid.Layout)
	fmt.Fprintln(s.w, summaryLine(res.Stats, res.Cached))
	fmt.Fprintf(s.w, "  %s %s\n", StyleDim.Render("→"), stylePath.Render(path))
}

// summaryLine lists key and row counts followed by where the document came
// from. Zero counts are left out.
func summaryLine(st pipeline.Stats, cached bool) string {
	var parts []string
	if st.Keys > 0 {
		parts = append(parts, fmt.Sprintf("%d keys", st.Keys))
	}
	if st.Rows > 0 {
		parts = append(parts, fmt.Sprintf("%d rows", st.Rows))
	}
	if st.Overwrites > 0 {
		parts = append(parts, fmt.Sprintf("%d overwritten", st.Overwrites))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
