package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnRunStart(ctx, "run", 4, 6)
	l.OnStressCheck(ctx, "run", 10, 0.25)
	l.OnRunComplete(ctx, "run", 10, 0.25, "converged", time.Second)

	i := NoopInputHooks{}
	i.OnLoad(ctx, "vectors.csv", 4, 2, time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Input().(NoopInputHooks); !ok {
		t.Error("Input() should return NoopInputHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customInput := &testInputHooks{}
	SetInputHooks(customInput)
	if Input() != customInput {
		t.Error("SetInputHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks()

	h.OnRunStart(ctx, "run", 4, 6)
	h.OnStressCheck(ctx, "run", 10, 0.5)
	h.OnStressCheck(ctx, "run", 20, 0.25)
	h.OnRunComplete(ctx, "run", 20, 0.25, "converged", 2*time.Second)
	h.OnLoad(ctx, "a.csv", 4, 2, time.Millisecond, nil)
	h.OnLoad(ctx, "b.csv", 0, 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(h.runsStarted); got != 1 {
		t.Errorf("runs started = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.stressChecks); got != 2 {
		t.Errorf("stress checks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.stress); got != 0.25 {
		t.Errorf("stress = %v, want 0.25", got)
	}
	if got := testutil.ToFloat64(h.runsFinished.WithLabelValues("converged")); got != 1 {
		t.Errorf("runs finished{converged} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.itemsLoaded); got != 4 {
		t.Errorf("items loaded = %v, want 4", got)
	}
	if got := testutil.ToFloat64(h.loadErrors); got != 1 {
		t.Errorf("load errors = %v, want 1", got)
	}
}

func TestPrometheusWriteTextfile(t *testing.T) {
	h := NewPrometheusHooks()
	h.OnRunStart(context.Background(), "run", 2, 1)

	path := filepath.Join(t.TempDir(), "ssaview.prom")
	if err := h.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "ssaview_layout_runs_started_total 1") {
		t.Errorf("textfile missing runs counter:\n%s", data)
	}
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testInputHooks struct{ NoopInputHooks }
