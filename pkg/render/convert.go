package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/qmkwire/pkg/errors"
)

// rsvgConvert is the librsvg command line converter.
const rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG diagram to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an SVG diagram to PNG; scale 2.0 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return convertSVG(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func convertSVG(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgConvert); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output requires librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)", format)
	}

	cmd := exec.CommandContext(ctx, rsvgConvert, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
