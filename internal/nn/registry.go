package nn

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// SignActivation is the default activation of non-input units.
const SignActivation = "sign"

var (
	ErrActivationExists   = errors.New("activation already registered")
	ErrActivationNotFound = errors.New("activation not found")
)

// ActivationFunc maps a unit's judge value to its activation.
type ActivationFunc func(x float64) float64

var activations = struct {
	sync.RWMutex
	byName map[string]ActivationFunc
}{byName: builtinActivations()}

func builtinActivations() map[string]ActivationFunc {
	return map[string]ActivationFunc{
		SignActivation: Sign,
		"identity":     func(x float64) float64 { return x },
		"relu":         func(x float64) float64 { return math.Max(x, 0) },
		"tanh":         math.Tanh,
		"sigmoid":      func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	}
}

// Sign maps x to +1, 0 or -1 according to its sign. NaN maps to -1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x == 0:
		return 0
	default:
		return -1
	}
}

// RegisterActivation makes fn selectable by name through WithActivation.
func RegisterActivation(name string, fn ActivationFunc) error {
	if name == "" {
		return errors.New("activation name is required")
	}
	if fn == nil {
		return errors.Errorf("activation %q: function is required", name)
	}

	activations.Lock()
	defer activations.Unlock()
	if _, ok := activations.byName[name]; ok {
		return errors.Wrap(ErrActivationExists, name)
	}
	activations.byName[name] = fn
	return nil
}

func MustRegisterActivation(name string, fn ActivationFunc) {
	if err := RegisterActivation(name, fn); err != nil {
		panic(err)
	}
}

func GetActivation(name string) (ActivationFunc, error) {
	activations.RLock()
	fn, ok := activations.byName[name]
	activations.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrActivationNotFound, name)
	}
	return fn, nil
}

// ListActivations returns the registered names in sorted order.
func ListActivations() []string {
	activations.RLock()
	defer activations.RUnlock()

	names := make([]string, 0, len(activations.byName))
	for name := range activations.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetActivationsForTests() {
	activations.Lock()
	activations.byName = builtinActivations()
	activations.Unlock()
}
