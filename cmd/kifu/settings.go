package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/ChizhovVadim/KifuGo/internal/config"
	"github.com/ChizhovVadim/KifuGo/internal/dataset"
	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/store"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	var cfg = config.Default()
	if path := c.String("config"); path != "" {
		var loaded, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.IsSet("db") {
		cfg.Store.Path = c.String("db")
	}
	if c.IsSet("generation") {
		var g = c.Int("generation")
		cfg.Store.Generation = &g
	}
	if c.IsSet("preset") {
		cfg.Board = config.BoardConfig{Preset: c.String("preset")}
	}
	if c.IsSet("policy") {
		cfg.Decode.Policy = c.String("policy")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	var level, _ = config.ParseLevel(cfg.Log.Level)
	var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store.Store, error) {
	var busyTimeout, err = cfg.BusyTimeout()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store.Path, store.Options{
		BusyTimeout: busyTimeout,
		OpenRetries: cfg.Store.OpenRetries,
		Logger:      logger,
	})
}

func generationLabel(g *int) string {
	if g == nil {
		return "all"
	}
	return strconv.Itoa(*g)
}

// loadDataset decodes every selected game of an open store.
// loadDataset decodes the selected games. With summaryOnly the examples are
// not kept, only the counters.
func loadDataset(c *cli.Context, cfg config.Config, s *store.Store, logger *slog.Logger, summaryOnly bool) (*decoder.Result, error) {
	dc, err := cfg.DecoderConfig()
	if err != nil {
		return nil, err
	}
	d, err := decoder.New(dc)
	if err != nil {
		return nil, err
	}
	var dp = &dataset.DatasetProvider{
		Source:       s,
		Decoder:      d,
		PageSize:     cfg.Store.PageSize,
		Filter:       store.Filter{Generation: cfg.Store.Generation},
		MaxSnapshots: cfg.Store.MaxSnapshots,
		SummaryOnly:  summaryOnly,
		Logger:       logger,
	}
	return dp.Load(c.Context)
}

// withStore sets up logging, opens the store and runs fn.
func withStore(c *cli.Context, cfg config.Config, fn func(s *store.Store, logger *slog.Logger) error) error {
	var logger = newLogger(cfg)
	logger.Debug("settings", "config", cfg)
	var s, err = openStore(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, logger)
}
