package nn

import (
	"sync"

	"golang.org/x/exp/constraints"

	"bbnn/internal/ident"
)

// Sink receives the activation computed by the output unit it is attached to.
type Sink[T constraints.Float] interface {
	ID() ident.ID
	MakeImpulses(value T, source ident.ID)
}

// SnapshotSink is an optional sink capability for inspecting the most recent
// delivery.
type SnapshotSink[T constraints.Float] interface {
	Last() (T, ident.ID, bool)
}

// SinkFactory builds the sink attached to one output unit during wiring.
type SinkFactory[T constraints.Float] func(output ident.ID) Sink[T]

type NopSink[T constraints.Float] struct {
	id ident.ID
}

func NewNopSink[T constraints.Float](_ ident.ID) Sink[T] {
	return &NopSink[T]{id: ident.Next()}
}

func (s *NopSink[T]) ID() ident.ID {
	return s.id
}

func (s *NopSink[T]) MakeImpulses(_ T, _ ident.ID) {}

// RecordingSink keeps the latest value delivered to it.
type RecordingSink[T constraints.Float] struct {
	id ident.ID

	mu       sync.RWMutex
	last     T
	source   ident.ID
	received bool
}

func NewRecordingSink[T constraints.Float](_ ident.ID) Sink[T] {
	return &RecordingSink[T]{id: ident.Next(), source: ident.None}
}

func (s *RecordingSink[T]) ID() ident.ID {
	return s.id
}

func (s *RecordingSink[T]) MakeImpulses(value T, source ident.ID) {
	s.mu.Lock()
	s.last = value
	s.source = source
	s.received = true
	s.mu.Unlock()
}

func (s *RecordingSink[T]) Last() (T, ident.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.source, s.received
}
