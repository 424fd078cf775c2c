package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/bigmodel"
	"github.com/poiesic/curator/api"
	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/config"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/precompute"
	"github.com/poiesic/curator/storage"
	"github.com/urfave/cli/v2"
)

func openEngine(cfg *config.Config) (*curator.Engine, error) {
	opts := []curator.Option{
		curator.WithAIConfig(ai.NewConfig(cfg.AI.AIOptions()...)),
		curator.WithCatalogFiles(cfg.Catalog.Enriched, cfg.Catalog.Plain),
		curator.WithQuotaLimits(cfg.Quota.Limits()),
		curator.WithLogger(slog.Default()),
	}
	if cfg.Database.InMemory {
		opts = append(opts, curator.WithInMemory())
	}
	if cfg.AI.Offline {
		opts = append(opts, curator.WithOffline())
	}

	engine, err := curator.NewEngine(cfg.Database.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

// withEngine opens the engine for the duration of one command.
func withEngine(c *cli.Context, fn func(ctx context.Context, engine *curator.Engine) error) error {
	cfg, err := loadedConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()
	return fn(c.Context, engine)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadedConfig(c)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	server, err := api.NewServer(engine, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}

func recommendCommand(c *cli.Context) error {
	excludes := c.Int64Slice("exclude")
	query := &core.Query{
		Title:       c.String("title"),
		Description: c.String("description"),
		TaskType:    core.TaskType(c.String("type")),
		LikedTags:   c.StringSlice("liked-tag"),
		ExcludeIDs:  make([]core.ResourceID, len(excludes)),
		Limit:       c.Int("limit"),
	}
	for i, id := range excludes {
		query.ExcludeIDs[i] = core.ResourceID(id)
	}

	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		rec, err := engine.Recommend(ctx, c.String("user"), query)
		if err != nil {
			return err
		}
		if rec.QuotaExceeded {
			fmt.Fprintln(os.Stderr, "monthly recommend quota exhausted")
		}
		return printJSON(c.App.Writer, rec)
	})
}

func prioritizeCommand(c *cli.Context) error {
	tasks, err := readTasks(c.String("file"), os.Stdin)
	if err != nil {
		return err
	}
	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		result, err := engine.Prioritize(ctx, tasks)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, result)
	})
}

// readTasks decodes a JSON task array from path, or from stdin when path is "-".
func readTasks(path string, stdin io.Reader) ([]core.Task, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open task file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var tasks []core.Task
	if err := json.NewDecoder(r).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func decomposeCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		result, err := engine.Decompose(ctx, c.String("user"), c.String("title"), c.String("description"))
		if errors.Is(err, curator.ErrRemoteUnavailable) {
			return fmt.Errorf("decompose needs the remote generator; configure ai.api_key or drop --offline: %w", err)
		}
		if err != nil {
			return err
		}
		if result.QuotaExceeded {
			fmt.Fprintln(os.Stderr, "monthly decompose quota exhausted")
		}
		return printJSON(c.App.Writer, result)
	})
}

func interactCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		outcome, err := engine.RecordInteraction(ctx,
			c.String("user"),
			core.ResourceID(c.Int64("resource")),
			core.Action(c.String("action")),
			c.StringSlice("tag"),
		)
		if err != nil {
			return err
		}
		engine.Flush()
		return printJSON(c.App.Writer, map[string]any{
			"action": outcome.Action,
			"change": outcome.Change.String(),
			"active": outcome.Active,
		})
	})
}

func usageCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		usage, err := engine.Usage(ctx, c.String("user"))
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, usage)
	})
}

func feedbackCommand(c *cli.Context) error {
	filter := storage.FeedbackFilter{
		UserID:     c.String("user"),
		ResourceID: core.ResourceID(c.Int64("resource")),
	}
	return withEngine(c, func(ctx context.Context, engine *curator.Engine) error {
		records, err := engine.Feedback(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, records)
	})
}

func precomputeCommand(c *cli.Context) error {
	cfg, err := loadedConfig(c)
	if err != nil {
		return err
	}

	pcfg := &precompute.Config{
		BatchSize:      c.Int("batch-size"),
		BatchDelay:     precompute.DefaultConfig().BatchDelay,
		ItemDelay:      precompute.DefaultConfig().ItemDelay,
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if pcfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if pcfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if pcfg.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	in := cfg.Catalog.Plain
	if c.IsSet("in") {
		in = c.String("in")
	}
	out := cfg.Catalog.Enriched
	if c.IsSet("out") {
		out = c.String("out")
	}
	if in == "" || out == "" {
		return fmt.Errorf("both an input and an output catalog file are required")
	}

	provider, err := bigmodel.NewProvider(ai.NewConfig(cfg.AI.AIOptions()...))
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer provider.Close()

	var opts []precompute.Option
	if prev := c.String("previous"); prev != "" {
		opts = append(opts, precompute.WithPrevious(catalog.NewFileSource(prev)))
	}
	p, err := precompute.NewPrecomputer(provider.Embedder(), pcfg, os.Stderr, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Input: %s\n", in)
	fmt.Fprintf(os.Stderr, "Output: %s\n", out)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	report, err := p.Run(c.Context, catalog.NewFileSource(in), out)
	if err != nil {
		return fmt.Errorf("precompute failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Embedded %d, reused %d, missing %d of %d resources in %s\n",
		report.Embedded, report.Reused, report.Missing, report.Total, report.Elapsed)
	return nil
}
