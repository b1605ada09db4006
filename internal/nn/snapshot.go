package nn

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"bbnn/internal/model"
)

var ErrSnapshotShape = errors.New("snapshot does not describe a complete two-layer network")

// Snapshot captures units, weights, thresholds and impulse caches. Edges are
// recorded against unit positions so a restored network can use fresh IDs.
func (n *Network[T]) Snapshot() model.NetworkSnapshot {
	n.Build()
	snap := model.NetworkSnapshot{
		VersionedRecord: model.CurrentVersion(),
		ID:              n.id,
		Activation:      n.activation,
		InputCount:      len(n.input),
		OutputCount:     len(n.output),
		Units:           make([]model.UnitRecord, 0, len(n.units)),
		Edges:           make([]model.EdgeRecord, 0, len(n.input)*len(n.output)),
	}
	for _, u := range n.units {
		layer := model.LayerOutput
		if n.isInputLayer(u.id) {
			layer = model.LayerInput
		}
		snap.Units = append(snap.Units, model.UnitRecord{
			ID:         int64(u.id),
			Layer:      layer,
			Threshold:  float64(u.threshold),
			Activation: float64(u.activation),
		})
	}
	for to, u := range n.units {
		for _, src := range u.incoming {
			snap.Edges = append(snap.Edges, model.EdgeRecord{
				From:   n.index[src],
				To:     to,
				Weight: float64(u.weight[src]),
				Cached: float64(u.cache[src]),
			})
		}
	}
	return snap
}

// Restore rebuilds a wired network from a snapshot. The snapshot's
// activation overrides any WithActivation option.
func Restore[T constraints.Float](snap model.NetworkSnapshot, opts ...Option) (*Network[T], error) {
	if snap.InputCount < 0 || snap.OutputCount < 0 || len(snap.Units) != snap.InputCount+snap.OutputCount {
		return nil, errors.Wrapf(ErrSnapshotShape, "units=%d input=%d output=%d", len(snap.Units), snap.InputCount, snap.OutputCount)
	}
	if len(snap.Edges) != snap.InputCount*snap.OutputCount {
		return nil, errors.Wrapf(ErrSnapshotShape, "edges=%d want=%d", len(snap.Edges), snap.InputCount*snap.OutputCount)
	}

	activation := snap.Activation
	if activation == "" {
		activation = SignActivation
	}
	n, err := New[T](snap.InputCount, snap.OutputCount, append(append([]Option(nil), opts...), WithActivation(activation))...)
	if err != nil {
		return nil, err
	}
	n.Build()
	if snap.ID != "" {
		n.id = snap.ID
	}

	for i, rec := range snap.Units {
		want := model.LayerOutput
		if i < snap.InputCount {
			want = model.LayerInput
		}
		if rec.Layer != want {
			return nil, errors.Wrapf(ErrSnapshotShape, "unit %d: layer=%q want=%q", i, rec.Layer, want)
		}
		u := n.units[i]
		u.threshold = T(rec.Threshold)
		u.activation = T(rec.Activation)
	}
	seen := make(map[[2]int]struct{}, len(snap.Edges))
	for _, e := range snap.Edges {
		if e.From < 0 || e.From >= snap.InputCount || e.To < snap.InputCount || e.To >= len(n.units) {
			return nil, errors.Wrapf(ErrSnapshotShape, "edge %d->%d", e.From, e.To)
		}
		key := [2]int{e.From, e.To}
		if _, dup := seen[key]; dup {
			return nil, errors.Wrapf(ErrSnapshotShape, "duplicate edge %d->%d", e.From, e.To)
		}
		seen[key] = struct{}{}
		src := n.units[e.From].id
		dst := n.units[e.To]
		if err := dst.SetWeight(src, T(e.Weight)); err != nil {
			return nil, err
		}
		dst.cache[src] = T(e.Cached)
	}
	return n, nil
}
