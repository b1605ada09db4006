package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	api "bbnn/pkg/bbnn"
)

func writeConfig(t *testing.T, payload map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run_config.json")
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunRequestFromConfig(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"inputs":            3,
		"outputs":           2,
		"seed":              77,
		"activation":        "tanh",
		"random_thresholds": true,
		"samples": []any{
			map[string]any{"stimulus": []any{0, 1, 0.5}, "target": []any{1, 0}},
		},
	})

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load run request: %v", err)
	}
	if req.Inputs != 3 || req.Outputs != 2 || req.Seed != 77 || req.Activation != "tanh" || !req.RandomThresholds {
		t.Fatalf("unexpected base fields: %+v", req)
	}
	if len(req.Samples) != 1 || req.Samples[0].Stimulus[2] != 0.5 || req.Samples[0].Target[0] != 1 {
		t.Fatalf("unexpected samples: %+v", req.Samples)
	}
}

func TestLoadRunRequestFromConfigDefaults(t *testing.T) {
	req, err := loadRunRequestFromConfig(writeConfig(t, map[string]any{}))
	if err != nil {
		t.Fatalf("load run request: %v", err)
	}
	if req.Inputs != 2 || req.Outputs != 1 || len(req.Samples) != 0 {
		t.Fatalf("unexpected defaults: %+v", req)
	}
}

func TestLoadRunRequestFromConfigBadSample(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"samples": []any{map[string]any{"stimulus": "nope", "target": []any{1}}},
	})
	if _, err := loadRunRequestFromConfig(path); err == nil {
		t.Fatal("expected bad sample error")
	}
}

func TestOverrideFromFlags(t *testing.T) {
	req := api.RunRequest{Inputs: 3, Outputs: 2, Seed: 1}
	err := overrideFromFlags(&req, map[string]bool{"seed": true, "outputs": true}, map[string]any{
		"inputs":  9,
		"outputs": 4,
		"seed":    int64(5),
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if req.Inputs != 3 || req.Outputs != 4 || req.Seed != 5 {
		t.Fatalf("unexpected override result: %+v", req)
	}
}

func TestParseSamples(t *testing.T) {
	samples, err := parseSamples("0,0:0; 0,1:1 ;1,1:0;")
	if err != nil {
		t.Fatalf("parse samples: %v", err)
	}
	if len(samples) != 3 || samples[1].Stimulus[1] != 1 || samples[1].Target[0] != 1 {
		t.Fatalf("unexpected samples: %+v", samples)
	}
	for _, bad := range []string{"0,1", "a,1:0", "0,1:x"} {
		if _, err := parseSamples(bad); err == nil {
			t.Fatalf("expected parse error for %q", bad)
		}
	}
}
