package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bbnn/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	networks    map[string]model.NetworkSnapshot
	inferences  map[string][]model.InferenceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.networks = make(map[string]model.NetworkSnapshot)
	s.inferences = make(map[string][]model.InferenceRecord)
	return nil
}

func (s *MemoryStore) SaveNetwork(_ context.Context, snapshot model.NetworkSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.networks[snapshot.ID] = copySnapshot(snapshot)
	return nil
}

func (s *MemoryStore) GetNetwork(_ context.Context, id string) (model.NetworkSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.networks[id]
	if !ok {
		return model.NetworkSnapshot{}, false, nil
	}
	return copySnapshot(snapshot), true, nil
}

func (s *MemoryStore) ListNetworks(_ context.Context) ([]model.NetworkSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.NetworkSnapshot, 0, len(s.networks))
	for _, snapshot := range s.networks {
		out = append(out, copySnapshot(snapshot))
	}
	sortSnapshots(out)
	return out, nil
}

func (s *MemoryStore) SaveInferences(_ context.Context, networkID string, records []model.InferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.inferences[networkID] = copyInferences(records)
	return nil
}

func (s *MemoryStore) GetInferences(_ context.Context, networkID string) ([]model.InferenceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.inferences[networkID]
	if !ok {
		return nil, false, nil
	}
	return copyInferences(records), true, nil
}

func copySnapshot(snapshot model.NetworkSnapshot) model.NetworkSnapshot {
	copied := snapshot
	copied.Units = append([]model.UnitRecord(nil), snapshot.Units...)
	copied.Edges = append([]model.EdgeRecord(nil), snapshot.Edges...)
	return copied
}

func copyInferences(records []model.InferenceRecord) []model.InferenceRecord {
	copied := make([]model.InferenceRecord, 0, len(records))
	for _, record := range records {
		copied = append(copied, model.InferenceRecord{
			VersionedRecord: record.VersionedRecord,
			Sequence:        record.Sequence,
			Stimulus:        append([]float64(nil), record.Stimulus...),
			Target:          append([]float64(nil), record.Target...),
			Outputs:         append([]float64(nil), record.Outputs...),
		})
	}
	return copied
}

// sortSnapshots orders newest first, breaking ties by id. Timestamps are
// compared as instants since RFC3339 fractions vary in width.
func sortSnapshots(snapshots []model.NetworkSnapshot) {
	created := make(map[string]time.Time, len(snapshots))
	for _, s := range snapshots {
		if ts, err := time.Parse(time.RFC3339Nano, s.CreatedAtUTC); err == nil {
			created[s.ID] = ts
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := created[snapshots[i].ID], created[snapshots[j].ID]
		if !a.Equal(b) {
			return a.After(b)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
}
