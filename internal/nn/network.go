package nn

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"bbnn/internal/ident"
)

var (
	ErrInvalidLayerSize = errors.New("layer size must be >= 0")
	ErrInputShape       = errors.New("vector length does not match layer size")
	ErrUnknownUnit      = errors.New("unit does not belong to network")
	ErrSinkType         = errors.New("sink factory does not match network value type")
)

type options struct {
	source           Source
	activation       string
	randomThresholds bool
	sinkFactory      any
}

// Option configures a Network at construction time.
type Option func(*options)

// WithSource sets the generator used to draw connection weights.
func WithSource(src Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithSeed is shorthand for WithSource(NewSource(seed)).
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.source = NewSource(seed)
	}
}

// WithActivation selects a registered activation for every non-input unit.
func WithActivation(name string) Option {
	return func(o *options) {
		o.activation = name
	}
}

// WithRandomThresholds draws every unit threshold uniformly from [-1, 1]
// instead of starting at zero.
func WithRandomThresholds() Option {
	return func(o *options) {
		o.randomThresholds = true
	}
}

// WithSinks sets the factory for the sinks attached to output units. The
// factory's value type must match the Network's.
func WithSinks[T constraints.Float](factory SinkFactory[T]) Option {
	return func(o *options) {
		o.sinkFactory = factory
	}
}

// Network owns every unit of a two-layer graph. Connections are formed by
// Build, which every graph accessor runs first. A Network is not safe for
// concurrent use.
type Network[T constraints.Float] struct {
	id         string
	activation string
	source     Source
	newSink    SinkFactory[T]

	units  []*Unit[T]
	index  map[ident.ID]int
	input  []int
	output []int
	sinks  map[ident.ID]Sink[T]

	pending bool
}

// New allocates inputCount input units and outputCount output units. No
// connections exist until Build runs.
func New[T constraints.Float](inputCount, outputCount int, opts ...Option) (*Network[T], error) {
	if inputCount < 0 || outputCount < 0 {
		return nil, errors.Wrapf(ErrInvalidLayerSize, "input=%d output=%d", inputCount, outputCount)
	}

	cfg := options{activation: SignActivation}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.source == nil {
		cfg.source = NewSource(int64(uuid.New().ID()))
	}
	activate, err := GetActivation(cfg.activation)
	if err != nil {
		return nil, err
	}
	newSink := NewRecordingSink[T]
	if cfg.sinkFactory != nil {
		factory, ok := cfg.sinkFactory.(SinkFactory[T])
		if !ok {
			return nil, errors.Wrapf(ErrSinkType, "%T", cfg.sinkFactory)
		}
		newSink = factory
	}

	n := &Network[T]{
		id:         uuid.NewString(),
		activation: cfg.activation,
		source:     cfg.source,
		newSink:    newSink,
		units:      make([]*Unit[T], 0, inputCount+outputCount),
		index:      make(map[ident.ID]int, inputCount+outputCount),
		input:      make([]int, 0, inputCount),
		output:     make([]int, 0, outputCount),
		sinks:      make(map[ident.ID]Sink[T], outputCount),
		pending:    true,
	}
	for i := 0; i < inputCount; i++ {
		n.input = append(n.input, n.addUnit(activate, cfg))
	}
	for i := 0; i < outputCount; i++ {
		n.output = append(n.output, n.addUnit(activate, cfg))
	}
	return n, nil
}

func (n *Network[T]) addUnit(activate ActivationFunc, cfg options) int {
	u := newUnit[T](activate)
	if cfg.randomThresholds {
		u.threshold = T(n.source.Float(-1, 1))
	}
	n.index[u.id] = len(n.units)
	n.units = append(n.units, u)
	return len(n.units) - 1
}

func (n *Network[T]) ID() string {
	return n.id
}

func (n *Network[T]) ActivationName() string {
	return n.activation
}

// Pending reports whether the connection pass has not run yet.
func (n *Network[T]) Pending() bool {
	return n.pending
}

// Build wires every input unit to every output unit and attaches one sink per
// output unit. It runs once; later calls do nothing.
func (n *Network[T]) Build() {
	if !n.pending {
		return
	}
	for _, i := range n.input {
		in := n.units[i]
		for _, o := range n.output {
			out := n.units[o]
			in.ConnectTo(out.id)
			out.ConnectedFrom(in.id, n.source)
		}
	}
	for _, o := range n.output {
		out := n.units[o]
		n.sinks[out.id] = n.newSink(out.id)
	}
	n.pending = false
}

func (n *Network[T]) InputLayer() []*Unit[T] {
	n.Build()
	return n.layer(n.input)
}

func (n *Network[T]) OutputLayer() []*Unit[T] {
	n.Build()
	return n.layer(n.output)
}

// Units returns every unit, input layer first.
func (n *Network[T]) Units() []*Unit[T] {
	n.Build()
	return append([]*Unit[T](nil), n.units...)
}

func (n *Network[T]) layer(indices []int) []*Unit[T] {
	out := make([]*Unit[T], len(indices))
	for i, idx := range indices {
		out[i] = n.units[idx]
	}
	return out
}

// Unit resolves an ID to the unit it names.
func (n *Network[T]) Unit(id ident.ID) (*Unit[T], bool) {
	idx, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return n.units[idx], true
}

// Sink returns the sink attached to an output unit.
func (n *Network[T]) Sink(output ident.ID) (Sink[T], bool) {
	n.Build()
	s, ok := n.sinks[output]
	return s, ok
}

// EdgeCount returns the number of directed connections in the graph.
func (n *Network[T]) EdgeCount() int {
	n.Build()
	total := 0
	for _, u := range n.units {
		total += len(u.incoming)
	}
	return total
}

// MakeImpulses delivers value from source to the unit named by target.
// Input units pass value unchanged to each outgoing target. Other units
// accumulate it, hand the activation to their sink, and forward the
// activation along any outgoing connections.
func (n *Network[T]) MakeImpulses(target ident.ID, value T, source ident.ID) error {
	n.Build()
	u, ok := n.Unit(target)
	if !ok {
		return errors.Wrapf(ErrUnknownUnit, "unit %s", target)
	}

	if u.IsInput() {
		for _, next := range u.outgoing {
			if err := n.MakeImpulses(next, value, u.id); err != nil {
				return err
			}
		}
		return nil
	}

	activation, err := u.Accumulate(value, source)
	if err != nil {
		return err
	}
	if sink, ok := n.sinks[u.id]; ok {
		sink.MakeImpulses(activation, u.id)
	}
	for _, next := range u.outgoing {
		if err := n.MakeImpulses(next, activation, u.id); err != nil {
			return err
		}
	}
	return nil
}

// Infer feeds stimulus[i] into input unit i, in order. target is checked
// against the output layer size but otherwise unused; no weights change.
// A length mismatch returns ErrInputShape without touching any unit.
func (n *Network[T]) Infer(stimulus, target []T) error {
	n.Build()
	if len(stimulus) != len(n.input) {
		return errors.Wrapf(ErrInputShape, "stimulus: got=%d want=%d", len(stimulus), len(n.input))
	}
	if len(target) != len(n.output) {
		return errors.Wrapf(ErrInputShape, "target: got=%d want=%d", len(target), len(n.output))
	}
	for i, idx := range n.input {
		if err := n.MakeImpulses(n.units[idx].id, stimulus[i], ident.None); err != nil {
			return errors.Wrapf(err, "input %d", i)
		}
	}
	return nil
}

// Train is Infer under the name the training driver uses.
func (n *Network[T]) Train(stimulus, target []T) error {
	return n.Infer(stimulus, target)
}

// Outputs returns the latest activation of each output unit, in order.
func (n *Network[T]) Outputs() []T {
	n.Build()
	out := make([]T, len(n.output))
	for i, idx := range n.output {
		out[i] = n.units[idx].activation
	}
	return out
}

func (n *Network[T]) isInputLayer(id ident.ID) bool {
	for _, idx := range n.input {
		if n.units[idx].id == id {
			return true
		}
	}
	return false
}

func (n *Network[T]) isOutputLayer(id ident.ID) bool {
	for _, idx := range n.output {
		if n.units[idx].id == id {
			return true
		}
	}
	return false
}
