package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gomdict/mdict"
)

func newCmdSearch(logger *zap.Logger) *cli.Command {
	var file string

	return &cli.Command{
		Name:      "search",
		Usage:     "Print up to 64 candidate headwords starting at a prefix.",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Usage:       "path to the .mdx dictionary",
				Required:    true,
				Destination: &file,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("search requires exactly one prefix argument", 1)
			}
			prefix := c.Args().First()

			ctx := c.Context

			h, err := mdict.OpenFile(ctx, file)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer h.Close()

			candidates, err := h.Search(ctx, prefix)
			if err != nil {
				return fmt.Errorf("searching %q: %w", prefix, err)
			}

			logger.Info("search completed", zap.String("prefix", prefix), zap.Int("candidates", len(candidates)))

			for _, cand := range candidates {
				fmt.Println(cand)
			}

			return nil
		},
	}
}
