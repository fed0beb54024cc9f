package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/ssaview/pkg/items"
	"github.com/matzehuels/ssaview/pkg/stress"
)

func TestWritePositions(t *testing.T) {
	var b strings.Builder
	err := WritePositions(&b, []items.Point{{0, 1.5}, {-2, 0.25}})
	if err != nil {
		t.Fatalf("WritePositions() error = %v", err)
	}
	want := "0\t0\t1.5\n1\t-2\t0.25\n"
	if got := b.String(); got != want {
		t.Errorf("WritePositions() = %q, want %q", got, want)
	}
}

func TestWriteShepard(t *testing.T) {
	var b strings.Builder
	err := WriteShepard(&b, []stress.ShepardPoint{{I: 0, J: 2, Desired: 1, Current: 0.5, Disparity: 0.75}})
	if err != nil {
		t.Fatalf("WriteShepard() error = %v", err)
	}
	want := "i\tj\tdesired\tcurrent\tdisparity\n0\t2\t1\t0.5\t0.75\n"
	if got := b.String(); got != want {
		t.Errorf("WriteShepard() = %q, want %q", got, want)
	}
}
