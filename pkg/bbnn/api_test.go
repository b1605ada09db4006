package bbnn

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"bbnn/internal/nn"
)

func newMemoryClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestClientRunPersistsNetworkAndHistory(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	summary, err := client.Run(ctx, RunRequest{
		Inputs:  3,
		Outputs: 2,
		Seed:    99,
		Samples: []Sample{
			{Stimulus: []float64{1, 0, -1}, Target: []float64{0, 0}},
			{Stimulus: []float64{0.5, 0.5, 0.5}, Target: []float64{1, 1}},
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" || summary.Seed != 99 || summary.Edges != 6 || summary.Activation != nn.SignActivation {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Outputs) != 2 || len(summary.Outputs[0]) != 2 {
		t.Fatalf("unexpected outputs: %+v", summary.Outputs)
	}
	for _, row := range summary.Outputs {
		for _, v := range row {
			if v != -1 && v != 0 && v != 1 {
				t.Fatalf("sign output out of range: %f", v)
			}
		}
	}

	snapshot, err := client.Network(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if snapshot.InputCount != 3 || snapshot.OutputCount != 2 || len(snapshot.Edges) != 6 || snapshot.Seed != 99 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	records, err := client.Inferences(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("inferences: %v", err)
	}
	if len(records) != 2 || records[1].Sequence != 1 || records[1].Stimulus[0] != 0.5 {
		t.Fatalf("unexpected records: %+v", records)
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != summary.RunID || runs[0].Inputs != 3 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestClientRunRejectsBadSample(t *testing.T) {
	client := newMemoryClient(t)
	_, err := client.Run(context.Background(), RunRequest{
		Inputs:  2,
		Outputs: 1,
		Seed:    1,
		Samples: []Sample{{Stimulus: []float64{1}, Target: []float64{0}}},
	})
	if !errors.Is(err, nn.ErrInputShape) {
		t.Fatalf("expected ErrInputShape, got: %v", err)
	}
}

func TestClientRunRejectsNegativeShape(t *testing.T) {
	client := newMemoryClient(t)
	_, err := client.Run(context.Background(), RunRequest{Inputs: -1, Outputs: 1})
	if !errors.Is(err, nn.ErrInvalidLayerSize) {
		t.Fatalf("expected ErrInvalidLayerSize, got: %v", err)
	}
}

func TestClientRunXORAndShow(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	summary, err := client.RunXOR(ctx, XORRequest{Seed: 2017})
	if err != nil {
		t.Fatalf("run xor: %v", err)
	}
	if summary.Mode != "gt" || len(summary.Predictions) != 4 || len(summary.Outputs) != 4 {
		t.Fatalf("unexpected xor summary: %+v", summary)
	}
	if summary.Fitness <= 0 {
		t.Fatalf("expected positive fitness, got %f", summary.Fitness)
	}

	records, err := client.Inferences(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("inferences: %v", err)
	}
	if len(records) != 4 || records[3].Stimulus[0] != 1 || records[3].Stimulus[1] != 1 || records[3].Target[0] != 0 {
		t.Fatalf("unexpected xor history: %+v", records)
	}

	var buf bytes.Buffer
	if err := client.Show(ctx, summary.RunID, &buf); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(buf.String(), summary.RunID) || !strings.Contains(buf.String(), "2 edges") {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestClientRunXORUnknownMode(t *testing.T) {
	client := newMemoryClient(t)
	if _, err := client.RunXOR(context.Background(), XORRequest{Mode: "bogus", Seed: 1}); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}

func TestClientMissingRun(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)
	if _, err := client.Network(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got: %v", err)
	}
	if _, err := client.Inferences(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got: %v", err)
	}
	if err := client.Show(ctx, "missing", &bytes.Buffer{}); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got: %v", err)
	}
}

func TestNewUnsupportedStore(t *testing.T) {
	if _, err := New(Options{StoreKind: "unknown"}); err == nil {
		t.Fatal("expected unsupported store error")
	}
}
