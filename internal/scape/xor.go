package scape

import (
	"context"
	"fmt"
	"strings"
)

type XORScape struct{}

func (XORScape) Name() string {
	return "xor"
}

func (XORScape) Evaluate(ctx context.Context, agent StepAgent) (Fitness, Trace, error) {
	return XORScape{}.EvaluateMode(ctx, agent, "gt")
}

func (XORScape) EvaluateMode(ctx context.Context, agent StepAgent, mode string) (Fitness, Trace, error) {
	cases, err := XORCases(mode)
	if err != nil {
		return 0, nil, err
	}
	return evaluateXOR(ctx, strings.TrimSpace(strings.ToLower(mode)), cases, func(ctx context.Context, c Case) (float64, error) {
		out, err := agent.RunStep(ctx, c.In, c.Want)
		if err != nil {
			return 0, err
		}
		if len(out) != 1 {
			return 0, fmt.Errorf("xor requires one output, got %d", len(out))
		}
		return out[0], nil
	})
}

// Case is one stimulus/target pair.
type Case struct {
	In   []float64
	Want []float64
}

// XORCases returns the truth table in the order used by mode. "gt" is the
// plain 00, 01, 10, 11 sequence.
func XORCases(mode string) ([]Case, error) {
	base := []Case{
		{In: []float64{0, 0}, Want: []float64{0}},
		{In: []float64{0, 1}, Want: []float64{1}},
		{In: []float64{1, 0}, Want: []float64{1}},
		{In: []float64{1, 1}, Want: []float64{0}},
	}

	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "gt":
		return base, nil
	case "validation":
		return []Case{base[1], base[2], base[0], base[3], base[1], base[2]}, nil
	case "test", "benchmark":
		return []Case{base[3], base[2], base[1], base[0], base[3], base[0], base[2], base[1]}, nil
	default:
		return nil, fmt.Errorf("unsupported xor mode: %s", mode)
	}
}

func evaluateXOR(
	ctx context.Context,
	mode string,
	cases []Case,
	predict func(context.Context, Case) (float64, error),
) (Fitness, Trace, error) {
	if mode == "" {
		mode = "gt"
	}
	var squaredErr float64
	predictions := make([]float64, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		predicted, err := predict(ctx, c)
		if err != nil {
			return 0, nil, err
		}
		predictions = append(predictions, predicted)
		delta := predicted - c.Want[0]
		squaredErr += delta * delta
	}

	if len(cases) == 0 {
		return 0, Trace{"mse": 0.0, "sse": 0.0, "predictions": predictions, "mode": mode, "cases": 0}, nil
	}

	sse := squaredErr
	mse := sse / float64(len(cases))
	fitness := Fitness(1.0 / (sse + 0.000001))
	return fitness, Trace{
		"mse":         mse,
		"sse":         sse,
		"predictions": predictions,
		"mode":        mode,
		"cases":       len(cases),
	}, nil
}
