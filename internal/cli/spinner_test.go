package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestSpinnerStopIsNotCancellation(t *testing.T) {
	captureUI(t)
	s := newSpinner("merging")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "rendering")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation, want true")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureUI(t)
	s := newSpinner("idempotent")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	buf := captureUI(t)
	s := newSpinner("first")
	s.SetMessage("second")
	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.StopWithSuccess("done %d", 2)

	out := buf.String()
	if strings.Contains(out, "first") {
		t.Errorf("output shows replaced message: %q", out)
	}
	if !strings.Contains(out, "second") || !strings.Contains(out, "done 2") {
		t.Errorf("output = %q", out)
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	buf := captureUI(t)
	s := newSpinner("failing")
	s.Start()
	s.StopWithError("render failed")
	if !strings.Contains(buf.String(), "render failed") {
		t.Errorf("output = %q", buf.String())
	}
}
