package nn

import (
	"errors"
	"testing"

	"bbnn/internal/model"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	original, err := New[float64](3, 2, WithSeed(21), WithRandomThresholds())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := original.Infer([]float64{1, -1, 0.5}, []float64{0, 0}); err != nil {
		t.Fatalf("infer: %v", err)
	}
	snap := original.Snapshot()
	if snap.InputCount != 3 || snap.OutputCount != 2 || len(snap.Units) != 5 || len(snap.Edges) != 6 {
		t.Fatalf("unexpected snapshot shape: %+v", snap)
	}

	restored, err := Restore[float64](snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Pending() {
		t.Fatal("restored network must already be wired")
	}
	if restored.ID() != original.ID() {
		t.Fatalf("unexpected restored id: got=%s want=%s", restored.ID(), original.ID())
	}

	got := restored.Snapshot()
	for i := range snap.Edges {
		if got.Edges[i] != snap.Edges[i] {
			t.Fatalf("edge %d differs: got=%+v want=%+v", i, got.Edges[i], snap.Edges[i])
		}
	}
	for i := range snap.Units {
		if got.Units[i].Threshold != snap.Units[i].Threshold || got.Units[i].Layer != snap.Units[i].Layer {
			t.Fatalf("unit %d differs: got=%+v want=%+v", i, got.Units[i], snap.Units[i])
		}
	}

	stimulus := []float64{-0.25, 0.75, 1}
	if err := original.Infer(stimulus, []float64{0, 0}); err != nil {
		t.Fatalf("infer original: %v", err)
	}
	if err := restored.Infer(stimulus, []float64{0, 0}); err != nil {
		t.Fatalf("infer restored: %v", err)
	}
	a, b := original.Outputs(), restored.Outputs()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("restored output %d differs: got=%f want=%f", i, b[i], a[i])
		}
	}
}

func TestRestoreRejectsMalformedSnapshots(t *testing.T) {
	net, err := New[float64](2, 1, WithSeed(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	valid := net.Snapshot()

	tests := []struct {
		name   string
		mutate func(s *model.NetworkSnapshot)
	}{
		{name: "missing-unit", mutate: func(s *model.NetworkSnapshot) { s.Units = s.Units[:2] }},
		{name: "missing-edge", mutate: func(s *model.NetworkSnapshot) { s.Edges = s.Edges[:1] }},
		{name: "edge-into-input", mutate: func(s *model.NetworkSnapshot) { s.Edges[0].To = 0 }},
		{name: "wrong-layer", mutate: func(s *model.NetworkSnapshot) { s.Units[0].Layer = model.LayerOutput }},
		{name: "duplicate-edge", mutate: func(s *model.NetworkSnapshot) { s.Edges[1] = s.Edges[0] }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := valid
			snap.Units = append([]model.UnitRecord(nil), valid.Units...)
			snap.Edges = append([]model.EdgeRecord(nil), valid.Edges...)
			tc.mutate(&snap)
			if _, err := Restore[float64](snap); !errors.Is(err, ErrSnapshotShape) {
				t.Fatalf("expected ErrSnapshotShape, got: %v", err)
			}
		})
	}
}
