package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gomdict/mdict"
)

func newCmdDescribe(logger *zap.Logger) *cli.Command {
	var file string

	return &cli.Command{
		Name:  "describe",
		Usage: "Print a dictionary's attribute map and file size.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Usage:       "path to the .mdx or .mdd dictionary",
				Required:    true,
				Destination: &file,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			h, err := mdict.OpenFile(ctx, file)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer h.Close()

			info, err := os.Stat(file)
			if err != nil {
				return err
			}

			logger.Info("dictionary described", zap.String("file", file), zap.Int64("size_bytes", info.Size()))

			fmt.Printf("Kind: %s\n", h.Kind())
			fmt.Printf("Size: %s\n", humanize.Bytes(uint64(info.Size())))
			fmt.Printf("Description: %s\n", h.Description())

			attrs := h.Attributes()

			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Printf("  %s: %s\n", k, attrs[k])
			}

			return nil
		},
	}
}
