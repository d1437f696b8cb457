// Command mdict is a small CLI over the mdict library: look up a phrase,
// search for candidate headwords, or print a dictionary's attributes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mdict: logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	app := &cli.App{
		Name:  "mdict",
		Usage: "inspect and query MDict (.mdx/.mdd) dictionary files",
		Commands: []*cli.Command{
			newCmdLookup(logger),
			newCmdSearch(logger),
			newCmdDescribe(logger),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		logger.Error("mdict failed", zap.Error(err))
		os.Exit(1)
	}
}
