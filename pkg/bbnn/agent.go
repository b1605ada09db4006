package bbnn

import (
	"context"
	"time"

	"bbnn/internal/model"
	"bbnn/internal/nn"
	"bbnn/internal/storage"
)

// networkAgent runs a network one sample at a time and records each call.
type networkAgent struct {
	net     *nn.Network[float64]
	seed    int64
	records []model.InferenceRecord
}

func newNetworkAgent(inputs, outputs int, seed int64, activation string, randomThresholds bool) (*networkAgent, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []nn.Option{nn.WithSeed(seed)}
	if activation != "" {
		opts = append(opts, nn.WithActivation(activation))
	}
	if randomThresholds {
		opts = append(opts, nn.WithRandomThresholds())
	}
	net, err := nn.New[float64](inputs, outputs, opts...)
	if err != nil {
		return nil, err
	}
	net.Build()
	return &networkAgent{net: net, seed: seed}, nil
}

func (a *networkAgent) ID() string {
	return a.net.ID()
}

func (a *networkAgent) RunStep(ctx context.Context, input, target []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.net.Infer(input, target); err != nil {
		return nil, err
	}
	outputs := a.net.Outputs()
	a.records = append(a.records, model.InferenceRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: storage.CurrentSchemaVersion, CodecVersion: storage.CurrentCodecVersion},
		Sequence:        len(a.records),
		Stimulus:        append([]float64(nil), input...),
		Target:          append([]float64(nil), target...),
		Outputs:         append([]float64(nil), outputs...),
	})
	return outputs, nil
}

func (a *networkAgent) summary() RunSummary {
	outputs := make([][]float64, len(a.records))
	for i, record := range a.records {
		outputs[i] = append([]float64(nil), record.Outputs...)
	}
	return RunSummary{
		RunID:      a.net.ID(),
		Seed:       a.seed,
		Activation: a.net.ActivationName(),
		Edges:      a.net.EdgeCount(),
		Outputs:    outputs,
	}
}
