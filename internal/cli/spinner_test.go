package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := statusOut
	statusOut = &syncWriter{w: &buf}
	t.Cleanup(func() { statusOut = old })
	return &buf
}

func TestSpinnerUpdate(t *testing.T) {
	captureStatus(t)

	s := newSpinner(context.Background(), "Laying out...")
	s.Start()
	s.Update("iteration %d · stress %.4f", 20, 0.125)
	if got := s.Message(); got != "iteration 20 · stress 0.1250" {
		t.Errorf("Message() = %q", got)
	}
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	captureStatus(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Laying out...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t)

	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "Loading...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.StopWithSuccess("Layout complete")

	if !strings.Contains(buf.String(), "Layout complete") {
		t.Errorf("status output %q missing success message", buf.String())
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
