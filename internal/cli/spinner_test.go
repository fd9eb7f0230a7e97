package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestFetchSpinnerDrawsAndErases(t *testing.T) {
	var buf bytes.Buffer
	s := newFetchSpinner(context.Background(), &buf, "planck/rev6")
	s.start()
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Fetching planck/rev6...") {
		t.Errorf("output = %q, missing label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want the line erased last", out)
	}
}

func TestFetchSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newFetchSpinner(ctx, &bytes.Buffer{}, "crkbd/rev1")
	s.start()
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after context cancel")
	}
}

func TestFetchSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := newFetchSpinner(context.Background(), &buf, "planck")
	s.stop()
	if buf.Len() != 0 {
		t.Errorf("stop() before start() wrote %q", buf.String())
	}

	s = newFetchSpinner(context.Background(), &buf, "planck")
	s.start()
	s.stop()
	s.stop()
	s.start()
}
