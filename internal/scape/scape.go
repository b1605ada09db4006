package scape

import "context"

type Fitness float64

type Trace map[string]any

type Agent interface {
	ID() string
}

// StepAgent produces one output vector per input vector. The target is
// offered for agents that record it; it must not leak into the prediction.
type StepAgent interface {
	Agent
	RunStep(ctx context.Context, input, target []float64) ([]float64, error)
}

type Scape interface {
	Name() string
	Evaluate(ctx context.Context, agent StepAgent) (Fitness, Trace, error)
}

// ModeAwareScape optionally exposes evaluation mode routing for gt/validation/test flows.
type ModeAwareScape interface {
	Scape
	EvaluateMode(ctx context.Context, agent StepAgent, mode string) (Fitness, Trace, error)
}
