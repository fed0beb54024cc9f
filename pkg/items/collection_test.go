package items

import (
	"math"
	"testing"

	"github.com/matzehuels/ssaview/pkg/errors"
)

func scenarioVectors() [][]float64 {
	return [][]float64{{0, 0}, {1, 0}, {0, 1}, {10, 10}}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float64
		opts    []Option
	}{
		{name: "empty", vectors: nil},
		{name: "ragged", vectors: [][]float64{{1, 2}, {1}}},
		{name: "nan", vectors: [][]float64{{math.NaN()}}},
		{name: "inf", vectors: [][]float64{{1}, {math.Inf(-1)}}},
		{name: "zero dims", vectors: [][]float64{{1}}, opts: []Option{WithDimensions(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vectors, tt.opts...)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("New() error = %v, want %s", err, errors.ErrCodeConfiguration)
			}
		})
	}
}

func TestNewCopiesVectors(t *testing.T) {
	vectors := [][]float64{{1, 2}, {3, 4}}
	c, err := New(vectors)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vectors[0][0] = 100

	v, _ := c.Vector(0)
	if v[0] != 1 {
		t.Errorf("Vector(0)[0] = %v, want 1", v[0])
	}
}

func TestDesiredDistanceSymmetry(t *testing.T) {
	c, err := New(scenarioVectors())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < c.Len(); i++ {
		d, err := c.DesiredDistance(i, i)
		if err != nil || d != 0 {
			t.Errorf("DesiredDistance(%d, %d) = %v, %v; want 0, nil", i, i, d, err)
		}
		for j := 0; j < c.Len(); j++ {
			dij, _ := c.DesiredDistance(i, j)
			dji, _ := c.DesiredDistance(j, i)
			if dij != dji {
				t.Errorf("DesiredDistance(%d,%d) = %v, DesiredDistance(%d,%d) = %v", i, j, dij, j, i, dji)
			}
		}
	}

	if got := c.CachedPairs(); got != 6 {
		t.Errorf("CachedPairs() = %d, want 6", got)
	}

	d, _ := c.DesiredDistance(0, 3)
	if want := math.Sqrt(200); math.Abs(d-want) > 1e-12 {
		t.Errorf("DesiredDistance(0, 3) = %v, want %v", d, want)
	}
}

func TestIndexErrors(t *testing.T) {
	c, _ := New(scenarioVectors())

	checks := map[string]error{
		"distance low":  func() error { _, err := c.DesiredDistance(-1, 0); return err }(),
		"distance high": func() error { _, err := c.DesiredDistance(0, 4); return err }(),
		"position":      func() error { _, err := c.Position(4); return err }(),
		"set position":  c.SetPosition(7, 1, 1),
		"vector":        func() error { _, err := c.Vector(-2); return err }(),
	}
	for name, err := range checks {
		if !errors.Is(err, errors.ErrCodeIndex) {
			t.Errorf("%s: error = %v, want %s", name, err, errors.ErrCodeIndex)
		}
	}
}

func TestPositions(t *testing.T) {
	c, _ := New(scenarioVectors())

	if err := c.SetPosition(1, 2.5, -1); err != nil {
		t.Fatalf("SetPosition() error = %v", err)
	}
	p, _ := c.Position(1)
	if p.X() != 2.5 || p.Y() != -1 {
		t.Errorf("Position(1) = %v, want [2.5 -1]", p)
	}

	// Returned points are copies.
	p[0] = 99
	again, _ := c.Position(1)
	if again.X() != 2.5 {
		t.Errorf("Position(1).X() = %v after mutating copy, want 2.5", again.X())
	}

	if err := c.SetPosition(1, 1, 2, 3); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("SetPosition() with 3 coords error = %v, want %s", err, errors.ErrCodeConfiguration)
	}

	buf := c.CopyPositions(nil)
	if len(buf) != 8 {
		t.Fatalf("len(CopyPositions()) = %d, want 8", len(buf))
	}
	buf[0] = 7
	if err := c.StorePositions(buf); err != nil {
		t.Fatalf("StorePositions() error = %v", err)
	}
	if p, _ := c.Position(0); p.X() != 7 {
		t.Errorf("Position(0).X() = %v, want 7", p.X())
	}
	if err := c.StorePositions(buf[:3]); err == nil {
		t.Error("StorePositions() with short buffer should fail")
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float64
		want    bool
	}{
		{"single item", [][]float64{{1, 2}}, true},
		{"all zero", [][]float64{{0, 0}, {0, 0}, {0, 0}}, true},
		{"identical", [][]float64{{3, 1}, {3, 1}}, true},
		{"distinct", scenarioVectors(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.vectors)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := c.Degenerate(); got != tt.want {
				t.Errorf("Degenerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHigherDimensions(t *testing.T) {
	c, err := New(scenarioVectors(), WithDimensions(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.SetPosition(2, 1, 2, 3); err != nil {
		t.Fatalf("SetPosition() error = %v", err)
	}
	p, _ := c.Position(2)
	if len(p) != 3 || p[2] != 3 {
		t.Errorf("Position(2) = %v, want [1 2 3]", p)
	}
	if got := len(c.Positions()); got != 4 {
		t.Errorf("len(Positions()) = %d, want 4", got)
	}
}
