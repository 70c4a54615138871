package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/rill-lang/rill/compiler"
	"github.com/rill-lang/rill/compiler/ir"
	"github.com/rill-lang/rill/compiler/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	analyzeCmd := &cli.Command{
		Name:   "analyze",
		Action: analyzeAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "rill",
		Description: "rill is a tool for analyzing rill graphs",
		Commands: []*cli.Command{
			parseCmd,
			analyzeCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		f, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s", ir.Append(nil, f.Graph))
	}

	return nil
}

func analyzeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		out, err := compiler.AnalyzeFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "analyze %v", a)
		}

		fmt.Printf("%s", out)
	}

	return nil
}
