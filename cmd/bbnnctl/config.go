package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	api "bbnn/pkg/bbnn"
)

func loadRunRequestFromConfig(path string) (api.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return api.RunRequest{}, err
	}

	req := api.RunRequest{Inputs: 2, Outputs: 1}
	if v, ok := asInt(raw["inputs"]); ok {
		req.Inputs = v
	}
	if v, ok := asInt(raw["outputs"]); ok {
		req.Outputs = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["activation"]); ok {
		req.Activation = v
	}
	if v, ok := asBool(raw["random_thresholds"]); ok {
		req.RandomThresholds = v
	}
	if rawSamples, ok := raw["samples"].([]any); ok {
		for i, item := range rawSamples {
			sample, err := asSample(item)
			if err != nil {
				return api.RunRequest{}, fmt.Errorf("samples[%d]: %w", i, err)
			}
			req.Samples = append(req.Samples, sample)
		}
	}
	return req, nil
}

func asSample(v any) (api.Sample, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return api.Sample{}, fmt.Errorf("sample must be an object")
	}
	stimulus, ok := asFloat64Slice(m["stimulus"])
	if !ok {
		return api.Sample{}, fmt.Errorf("stimulus must be a number array")
	}
	target, ok := asFloat64Slice(m["target"])
	if !ok {
		return api.Sample{}, fmt.Errorf("target must be a number array")
	}
	return api.Sample{Stimulus: stimulus, Target: target}, nil
}

func asFloat64Slice(v any) ([]float64, bool) {
	if v == nil {
		return []float64{}, true
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := asFloat64(item)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(req *api.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "inputs":
			req.Inputs = v.(int)
		case "outputs":
			req.Outputs = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "activation":
			req.Activation = v.(string)
		case "random-thresholds":
			req.RandomThresholds = v.(bool)
		case "samples":
			req.Samples = v.([]api.Sample)
		default:
			return fmt.Errorf("unsupported override flag: %s", name)
		}
	}
	return nil
}

// parseSamples reads "s1,s2:t1;s1,s2:t2" into samples.
func parseSamples(spec string) ([]api.Sample, error) {
	var out []api.Sample
	for _, chunk := range strings.Split(spec, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		stimulusPart, targetPart, ok := strings.Cut(chunk, ":")
		if !ok {
			return nil, fmt.Errorf("sample %q: expected stimulus:target", chunk)
		}
		stimulus, err := parseVector(stimulusPart)
		if err != nil {
			return nil, fmt.Errorf("sample %q stimulus: %w", chunk, err)
		}
		target, err := parseVector(targetPart)
		if err != nil {
			return nil, fmt.Errorf("sample %q target: %w", chunk, err)
		}
		out = append(out, api.Sample{Stimulus: stimulus, Target: target})
	}
	return out, nil
}

func parseVector(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
