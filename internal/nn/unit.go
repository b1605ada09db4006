package nn

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"bbnn/internal/ident"
)

// ErrUnknownSource is returned when an impulse arrives from a unit that was
// never registered through ConnectedFrom.
var ErrUnknownSource = errors.New("impulse from unregistered connection source")

// Unit is one node of the propagation graph. Peers are referenced by ID
// only; the owning Network resolves them.
type Unit[T constraints.Float] struct {
	id         ident.ID
	outgoing   []ident.ID
	incoming   []ident.ID
	weight     map[ident.ID]T
	threshold  T
	cache      map[ident.ID]T
	activate   ActivationFunc
	activation T
}

func newUnit[T constraints.Float](activate ActivationFunc) *Unit[T] {
	return &Unit[T]{
		id:       ident.Next(),
		weight:   make(map[ident.ID]T),
		cache:    make(map[ident.ID]T),
		activate: activate,
	}
}

func (u *Unit[T]) ID() ident.ID {
	return u.id
}

// IsInput reports whether the unit has no incoming connections.
func (u *Unit[T]) IsInput() bool {
	return len(u.incoming) == 0
}

// IsOutput reports whether the unit has no outgoing connections.
func (u *Unit[T]) IsOutput() bool {
	return len(u.outgoing) == 0
}

// ConnectTo records target as the destination of a new outgoing connection.
// The target's incoming side is left to the caller. Repeated targets are
// ignored.
func (u *Unit[T]) ConnectTo(target ident.ID) {
	for _, t := range u.outgoing {
		if t == target {
			return
		}
	}
	u.outgoing = append(u.outgoing, target)
}

// ConnectedFrom registers source as a new incoming connection with a weight
// drawn uniformly from [-1, 1] and an empty impulse cache entry. A source
// that is already registered keeps its weight and cache, and no draw is made.
func (u *Unit[T]) ConnectedFrom(source ident.ID, rnd Source) {
	if _, ok := u.weight[source]; ok {
		return
	}
	u.incoming = append(u.incoming, source)
	u.weight[source] = T(rnd.Float(-1, 1))
	u.cache[source] = 0
}

// Accumulate stores value as the latest impulse from source and recomputes
// the unit's activation over every cached impulse.
func (u *Unit[T]) Accumulate(value T, source ident.ID) (T, error) {
	if _, ok := u.weight[source]; !ok {
		return 0, errors.Wrapf(ErrUnknownSource, "unit %s: source %s", u.id, source)
	}
	u.cache[source] = value

	judge := u.threshold
	for _, c := range u.incoming {
		judge += u.weight[c] * u.cache[c]
	}
	u.activation = T(u.activate(float64(judge)))
	return u.activation, nil
}

// Outgoing returns a copy of the outgoing connection targets in wiring order.
func (u *Unit[T]) Outgoing() []ident.ID {
	return append([]ident.ID(nil), u.outgoing...)
}

// Incoming returns a copy of the incoming connection sources in wiring order.
func (u *Unit[T]) Incoming() []ident.ID {
	return append([]ident.ID(nil), u.incoming...)
}

func (u *Unit[T]) Weight(source ident.ID) (T, bool) {
	w, ok := u.weight[source]
	return w, ok
}

// SetWeight overrides the weight of an existing incoming connection.
func (u *Unit[T]) SetWeight(source ident.ID, weight T) error {
	if _, ok := u.weight[source]; !ok {
		return errors.Wrapf(ErrUnknownSource, "unit %s: source %s", u.id, source)
	}
	u.weight[source] = weight
	return nil
}

func (u *Unit[T]) Cached(source ident.ID) (T, bool) {
	v, ok := u.cache[source]
	return v, ok
}

func (u *Unit[T]) Threshold() T {
	return u.threshold
}

func (u *Unit[T]) SetThreshold(threshold T) {
	u.threshold = threshold
}

// Activation returns the most recent result of Accumulate.
func (u *Unit[T]) Activation() T {
	return u.activation
}
