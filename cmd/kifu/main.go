package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kifu",
		Usage: "decode self-play game records into training datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to TOML config file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the game record database",
			},
			&cli.IntFlag{
				Name:    "generation",
				Aliases: []string{"g"},
				Usage:   "only use games of this generation",
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "board encoding preset (planes2, planes4, planes4-chw, pieces56)",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "malformed record policy: truncate or strict",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			statsCommand(),
			checkCommand(),
			generationsCommand(),
			exportCommand(),
		},
	}
}
