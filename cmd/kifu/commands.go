package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/export"
	"github.com/ChizhovVadim/KifuGo/internal/metrics"
	"github.com/ChizhovVadim/KifuGo/internal/store"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print snapshot count and first player win rate",
		Action: func(c *cli.Context) error {
			var cfg, err = loadConfig(c)
			if err != nil {
				return err
			}
			return withStore(c, cfg, func(s *store.Store, logger *slog.Logger) error {
				var count, err = s.Count(c.Context, store.Filter{Generation: cfg.Store.Generation})
				if err != nil {
					return err
				}
				logger.Info("stored games", "count", count, "generation", generationLabel(cfg.Store.Generation))
				result, err := loadDataset(c, cfg, s, logger, true)
				if err != nil {
					return err
				}
				printSummary(c, result.Summary)
				return nil
			})
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "report records whose length is not a whole number of snapshots",
		Action: func(c *cli.Context) error {
			var cfg, err = loadConfig(c)
			if err != nil {
				return err
			}
			cfg.Decode.Policy = decoder.PolicyTruncate.String()
			cfg.Store.MaxSnapshots = 0
			return withStore(c, cfg, func(s *store.Store, logger *slog.Logger) error {
				var result, err = loadDataset(c, cfg, s, logger, true)
				if err != nil {
					return err
				}
				printSummary(c, result.Summary)
				if result.Summary.TruncatedRecords != 0 {
					return fmt.Errorf("%v of %v records are malformed: %w",
						result.Summary.TruncatedRecords, result.Summary.Games, decoder.ErrMalformedRecord)
				}
				return nil
			})
		},
	}
}

func generationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "generations",
		Usage: "list generations with their game counts",
		Action: func(c *cli.Context) error {
			var cfg, err = loadConfig(c)
			if err != nil {
				return err
			}
			return withStore(c, cfg, func(s *store.Store, logger *slog.Logger) error {
				var gens, err = s.Generations(c.Context)
				if err != nil {
					return err
				}
				var w = tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "GENERATION\tGAMES")
				for _, g := range gens {
					fmt.Fprintf(w, "%v\t%v\n", generationLabel(g.Generation), humanize.Comma(int64(g.Games)))
				}
				return w.Flush()
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "decode, normalize and write x.npy/y.npy for the trainer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory",
			},
			&cli.StringFlag{
				Name:  "normalize",
				Usage: "fixed or batch-max",
			},
			&cli.Float64Flag{
				Name:  "divisor",
				Usage: "divisor for fixed normalization",
			},
			&cli.IntFlag{
				Name:  "max-snapshots",
				Usage: "stop after this many snapshots (0 = all)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write decode counters to this textfile",
			},
		},
		Action: func(c *cli.Context) error {
			var cfg, err = loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("out") {
				cfg.Export.Dir = c.String("out")
			}
			if c.IsSet("normalize") {
				cfg.Normalize.Mode = c.String("normalize")
			}
			if c.IsSet("divisor") {
				cfg.Normalize.Divisor = c.Float64("divisor")
			}
			if c.IsSet("max-snapshots") {
				cfg.Store.MaxSnapshots = c.Int("max-snapshots")
			}
			if c.IsSet("metrics-file") {
				cfg.Export.MetricsFile = c.String("metrics-file")
			}
			norm, err := cfg.NormalizePolicy()
			if err != nil {
				return err
			}
			layout, err := cfg.ExportLayout()
			if err != nil {
				return err
			}

			var result *decoder.Result
			err = withStore(c, cfg, func(s *store.Store, logger *slog.Logger) error {
				var res, err = loadDataset(c, cfg, s, logger, false)
				result = res
				return err
			})
			if err != nil {
				return err
			}
			var examples = result.Examples
			if layout != nil {
				examples = export.ToLayout(examples, *layout)
			}
			batch, err := export.Build(examples, norm)
			if err != nil {
				return err
			}
			err = batch.WriteNpy(cfg.Export.Dir)
			if err != nil {
				return err
			}
			slog.Info("dataset exported",
				"dir", cfg.Export.Dir,
				"shape", batch.X.Shape(),
				"normalize", norm,
				"scale", batch.Scale)

			if cfg.Export.MetricsFile != "" {
				var m = metrics.NewDecodeMetrics(generationLabel(cfg.Store.Generation))
				m.Observe(result.Summary)
				err = m.WriteTextfile(cfg.Export.MetricsFile)
				if err != nil {
					return err
				}
			}
			printSummary(c, result.Summary)
			return nil
		},
	}
}

func printSummary(c *cli.Context, s decoder.Summary) {
	var w = c.App.Writer
	fmt.Fprintf(w, "games: %v\n", humanize.Comma(int64(s.Games)))
	fmt.Fprintf(w, "data count: %v\n", humanize.Comma(int64(s.Snapshots)))
	fmt.Fprintf(w, "black winrate: %.2f%%\n", 100*s.BlackWinRate())
	if s.TruncatedRecords != 0 {
		fmt.Fprintf(w, "truncated records: %v (%v discarded)\n",
			s.TruncatedRecords, humanize.Bytes(uint64(s.DiscardedBytes)))
	}
}
