package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"bbnn/internal/storage"
	api "bbnn/pkg/bbnn"
)

const separator = "****************"

type cli struct {
	out io.Writer
	tty bool
}

func main() {
	fd := os.Stdout.Fd()
	c := cli{out: os.Stdout, tty: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
	if err := c.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "xor":
		return c.runXOR(ctx, args[1:])
	case "run":
		return c.runRun(ctx, args[1:])
	case "runs":
		return c.runRuns(ctx, args[1:])
	case "show":
		return c.runShow(ctx, args[1:])
	case "history":
		return c.runHistory(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func (c cli) runXOR(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	mode := fs.String("mode", "gt", "case order: gt|validation|test")
	seed := fs.Int64("seed", 0, "rng seed (0 draws one from the clock)")
	activation := fs.String("activation", "", "activation for output units (default sign)")
	randomThresholds := fs.Bool("random-thresholds", false, "draw unit thresholds from [-1, 1]")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+storage.KindMemory+"|"+storage.KindSQLite)
	dbPath := fs.String("db-path", "bbnn.db", "sqlite database path")
	quiet := fs.Bool("quiet", false, "skip the network dump")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.RunXOR(ctx, api.XORRequest{
		Mode:             *mode,
		Seed:             *seed,
		Activation:       *activation,
		RandomThresholds: *randomThresholds,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "run_id=%s mode=%s seed=%d edges=%d fitness=%s mse=%s\n",
		summary.RunID, summary.Mode, summary.Seed, summary.Edges,
		humanize.FtoaWithDigits(summary.Fitness, 6), humanize.FtoaWithDigits(summary.MSE, 6))
	for i, prediction := range summary.Predictions {
		fmt.Fprintf(c.out, "case=%d prediction=%s\n", i, humanize.Ftoa(prediction))
	}
	if *quiet {
		return nil
	}
	if c.tty {
		fmt.Fprintln(c.out, separator)
	}
	return client.Show(ctx, summary.RunID, c.out)
}

func (c cli) runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	inputs := fs.Int("inputs", 2, "input layer size")
	outputs := fs.Int("outputs", 1, "output layer size")
	seed := fs.Int64("seed", 0, "rng seed (0 draws one from the clock)")
	activation := fs.String("activation", "", "activation for output units (default sign)")
	randomThresholds := fs.Bool("random-thresholds", false, "draw unit thresholds from [-1, 1]")
	samples := fs.String("samples", "", "samples as stimulus:target pairs, e.g. 0,1:1;1,1:0")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+storage.KindMemory+"|"+storage.KindSQLite)
	dbPath := fs.String("db-path", "bbnn.db", "sqlite database path")
	show := fs.Bool("show", false, "print the network dump after the run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req := api.RunRequest{
		Inputs:           *inputs,
		Outputs:          *outputs,
		Seed:             *seed,
		Activation:       *activation,
		RandomThresholds: *randomThresholds,
	}
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
	}
	var parsedSamples []api.Sample
	if *samples != "" {
		var err error
		parsedSamples, err = parseSamples(*samples)
		if err != nil {
			return err
		}
	}
	if err := overrideFromFlags(&req, setFlags, map[string]any{
		"inputs":            *inputs,
		"outputs":           *outputs,
		"seed":              *seed,
		"activation":        *activation,
		"random-thresholds": *randomThresholds,
		"samples":           parsedSamples,
	}); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "run_id=%s seed=%d activation=%s edges=%s samples=%d\n",
		summary.RunID, summary.Seed, summary.Activation, humanize.Comma(int64(summary.Edges)), len(summary.Outputs))
	for i, row := range summary.Outputs {
		fmt.Fprintf(c.out, "sample=%d outputs=%s\n", i, formatVector(row))
	}
	if !*show {
		return nil
	}
	if c.tty {
		fmt.Fprintln(c.out, separator)
	}
	return client.Show(ctx, summary.RunID, c.out)
}

func (c cli) runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+storage.KindMemory+"|"+storage.KindSQLite)
	dbPath := fs.String("db-path", "bbnn.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, api.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		type runsItem struct {
			RunID        string `json:"run_id"`
			CreatedAtUTC string `json:"created_at_utc"`
			Seed         int64  `json:"seed"`
			Activation   string `json:"activation"`
			Inputs       int    `json:"inputs"`
			Outputs      int    `json:"outputs"`
		}
		out := make([]runsItem, 0, len(items))
		for _, item := range items {
			out = append(out, runsItem(item))
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "no runs found")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(c.out, "%s created=%s seed=%d activation=%s shape=%dx%d\n",
			item.RunID, item.CreatedAtUTC, item.Seed, item.Activation, item.Inputs, item.Outputs)
	}
	return nil
}

func (c cli) runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+storage.KindMemory+"|"+storage.KindSQLite)
	dbPath := fs.String("db-path", "bbnn.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("show requires --run-id")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	return client.Show(ctx, *runID, c.out)
}

func (c cli) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+storage.KindMemory+"|"+storage.KindSQLite)
	dbPath := fs.String("db-path", "bbnn.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("history requires --run-id")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	records, err := client.Inferences(ctx, *runID)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Fprintf(c.out, "seq=%d stimulus=%s target=%s outputs=%s\n",
			record.Sequence, formatVector(record.Stimulus), formatVector(record.Target), formatVector(record.Outputs))
	}
	return nil
}

func formatVector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = humanize.Ftoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: bbnnctl <xor|run|runs|show|history> [flags]", msg)
}
