package bbnn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"bbnn/internal/model"
	"bbnn/internal/nn"
	"bbnn/internal/scape"
	"bbnn/internal/storage"
)

const defaultDBPath = "bbnn.db"

var ErrRunNotFound = errors.New("run not found")

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store

	initOnce sync.Once
	initErr  error
}

type Sample struct {
	Stimulus []float64
	Target   []float64
}

type RunRequest struct {
	Inputs           int
	Outputs          int
	Seed             int64
	Activation       string
	RandomThresholds bool
	Samples          []Sample
}

type RunSummary struct {
	RunID      string
	Seed       int64
	Activation string
	Edges      int
	Outputs    [][]float64
}

type XORRequest struct {
	Mode             string
	Seed             int64
	Activation       string
	RandomThresholds bool
}

type XORSummary struct {
	RunSummary
	Mode        string
	Fitness     float64
	MSE         float64
	Predictions []float64
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Seed         int64
	Activation   string
	Inputs       int
	Outputs      int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Run builds a network of the requested shape, feeds every sample through it
// in order, and persists the wired network with its inference history.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	agent, err := newNetworkAgent(req.Inputs, req.Outputs, req.Seed, req.Activation, req.RandomThresholds)
	if err != nil {
		return RunSummary{}, err
	}

	for i, sample := range req.Samples {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, err
		}
		if _, err := agent.RunStep(ctx, sample.Stimulus, sample.Target); err != nil {
			return RunSummary{}, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	if err := c.persist(ctx, agent); err != nil {
		return RunSummary{}, err
	}
	return agent.summary(), nil
}

// RunXOR drives a 2x1 network through the XOR truth table and scores the
// sign outputs against the targets.
func (c *Client) RunXOR(ctx context.Context, req XORRequest) (XORSummary, error) {
	if err := c.Init(ctx); err != nil {
		return XORSummary{}, err
	}
	agent, err := newNetworkAgent(2, 1, req.Seed, req.Activation, req.RandomThresholds)
	if err != nil {
		return XORSummary{}, err
	}

	fitness, trace, err := scape.XORScape{}.EvaluateMode(ctx, agent, req.Mode)
	if err != nil {
		return XORSummary{}, err
	}
	if err := c.persist(ctx, agent); err != nil {
		return XORSummary{}, err
	}

	summary := XORSummary{
		RunSummary: agent.summary(),
		Fitness:    float64(fitness),
	}
	summary.Mode, _ = trace["mode"].(string)
	summary.MSE, _ = trace["mse"].(float64)
	summary.Predictions, _ = trace["predictions"].([]float64)
	return summary, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	snapshots, err := c.store.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshots) > req.Limit {
		snapshots = snapshots[:req.Limit]
	}

	out := make([]RunItem, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, RunItem{
			RunID:        s.ID,
			CreatedAtUTC: s.CreatedAtUTC,
			Seed:         s.Seed,
			Activation:   s.Activation,
			Inputs:       s.InputCount,
			Outputs:      s.OutputCount,
		})
	}
	return out, nil
}

func (c *Client) Network(ctx context.Context, runID string) (model.NetworkSnapshot, error) {
	if err := c.Init(ctx); err != nil {
		return model.NetworkSnapshot{}, err
	}
	snapshot, ok, err := c.store.GetNetwork(ctx, runID)
	if err != nil {
		return model.NetworkSnapshot{}, err
	}
	if !ok {
		return model.NetworkSnapshot{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return snapshot, nil
}

func (c *Client) Inferences(ctx context.Context, runID string) ([]model.InferenceRecord, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	records, ok, err := c.store.GetInferences(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return records, nil
}

// Show restores a stored network and writes its diagnostic dump to w.
func (c *Client) Show(ctx context.Context, runID string, w io.Writer) error {
	snapshot, err := c.Network(ctx, runID)
	if err != nil {
		return err
	}
	net, err := nn.Restore[float64](snapshot)
	if err != nil {
		return fmt.Errorf("restore %s: %w", runID, err)
	}
	return net.Print(w)
}

func (c *Client) persist(ctx context.Context, agent *networkAgent) error {
	snapshot := agent.net.Snapshot()
	snapshot.CreatedAtUTC = time.Now().UTC().Format(model.TimestampLayout)
	snapshot.Seed = agent.seed
	if err := c.store.SaveNetwork(ctx, snapshot); err != nil {
		return fmt.Errorf("save network %s: %w", snapshot.ID, err)
	}
	if err := c.store.SaveInferences(ctx, snapshot.ID, agent.records); err != nil {
		return fmt.Errorf("save inferences %s: %w", snapshot.ID, err)
	}
	return nil
}
