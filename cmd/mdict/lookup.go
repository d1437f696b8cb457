package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gomdict/mdict"
)

func newCmdLookup(logger *zap.Logger) *cli.Command {
	var file string
	var scanMode bool

	return &cli.Command{
		Name:      "lookup",
		Usage:     "Look up a phrase and print every matching definition.",
		ArgsUsage: "<phrase>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Usage:       "path to the .mdx or .mdd dictionary",
				Required:    true,
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "scan",
				Usage:       "use scan mode instead of the default express mode",
				Destination: &scanMode,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("lookup requires exactly one phrase argument", 1)
			}
			phrase := c.Args().First()

			ctx := c.Context

			openStart := time.Now()

			opts := []mdict.OpenOption{}
			if scanMode {
				opts = append(opts, mdict.WithScanMode())
			}

			h, err := mdict.OpenFile(ctx, file, opts...)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer h.Close()

			logger.Info("dictionary opened",
				zap.String("file", file),
				zap.Duration("open_duration", time.Since(openStart)),
				zap.String("mode", modeName(scanMode)),
			)

			lookupStart := time.Now()

			defs, err := h.Lookup(ctx, phrase)
			if err != nil {
				return fmt.Errorf("looking up %q: %w", phrase, err)
			}

			logger.Info("lookup completed",
				zap.String("phrase", phrase),
				zap.Int("matches", len(defs)),
				zap.Duration("lookup_duration", time.Since(lookupStart)),
			)

			for i, def := range defs {
				if def.Data != nil {
					fmt.Printf("--- match %d (%d bytes) ---\n", i+1, len(def.Data))

					continue
				}

				fmt.Printf("--- match %d ---\n%s\n", i+1, def.Text)
			}

			return nil
		},
	}
}

func modeName(scan bool) string {
	if scan {
		return "scan"
	}

	return "express"
}
