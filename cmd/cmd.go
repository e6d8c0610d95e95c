// Package cmd implements the facet command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/rubiojr/facet/eval"
	"github.com/rubiojr/facet/factor"
	"github.com/rubiojr/facet/tokens"
	"github.com/rubiojr/facet/transform"
)

// Execute runs the facet CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:    "facet",
		Usage:   "Stream data through stateful-transform expressions",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate an expression over a CSV file, streaming pass by pass",
				ArgsUsage: "<expression> <file.csv>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "chunk",
						Aliases: []string{"c"},
						Usage:   "Rows per streamed chunk",
						Value:   env.Int("FACET_CHUNK", 256),
					},
				},
				Action: runAction,
			},
			{
				Name:      "passes",
				Usage:     "Show the streaming schedule for an expression",
				ArgsUsage: "<expression>",
				Action:    passesAction,
			},
			{
				Name:      "tokens",
				Usage:     "Dump the annotated token stream of an expression",
				ArgsUsage: "<expression>",
				Action:    tokensAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// colors returns ANSI escapes for headings, honoring NO_COLOR and
// non-terminal output.
func colors() (heading, reset string) {
	if env.Bool("NO_COLOR") || env.Bool("FACET_NO_COLOR") {
		return "", ""
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", ""
	}
	return "\033[1;36m", "\033[0m"
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("usage: facet run <expression> <file.csv>")
	}
	expr := cmd.Args().Get(0)
	path := cmd.Args().Get(1)
	chunkSize := int(cmd.Int("chunk"))
	if chunkSize < 1 {
		chunkSize = 1
	}

	f, err := factor.Build(expr, eval.NewEnv(transform.Builtins()))
	if err != nil {
		return err
	}

	source, errp := csvChunks(path, chunkSize)
	if err := f.Stream(source); err != nil {
		return err
	}
	if *errp != nil {
		return *errp
	}

	// One final full read to evaluate the finished expression.
	var out []float64
	for chunk := range source {
		v, err := f.Eval(chunk)
		if err != nil {
			return err
		}
		vec, ok := eval.Floats(v)
		if !ok {
			return fmt.Errorf("expression did not produce numeric data (%T)", v)
		}
		out = append(out, vec...)
	}
	if *errp != nil {
		return *errp
	}
	for _, v := range out {
		fmt.Printf("%g\n", v)
	}
	return nil
}

func passesAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: facet passes <expression>")
	}
	f, err := factor.Build(cmd.Args().First(), eval.NewEnv(transform.Builtins()))
	if err != nil {
		return err
	}
	heading, reset := colors()

	fmt.Printf("%scode:%s      %s\n", heading, reset, f.Code())
	fmt.Printf("%seval code:%s %s\n", heading, reset, f.EvalCode())
	fmt.Printf("%spasses:%s    %d\n", heading, reset, f.PassesNeeded())
	for i, bin := range f.Bins() {
		fmt.Printf("%spass %d:%s\n", heading, i, reset)
		for _, name := range bin.Names() {
			fmt.Printf("  %s\n", f.MemorizeCode(name))
		}
	}
	return nil
}

func tokensAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: facet tokens <expression>")
	}
	seq, err := tokens.AnnotateCode(cmd.Args().First())
	if err != nil {
		return err
	}
	for at := range seq {
		var flags []string
		if at.BareRef {
			flags = append(flags, "bare_ref")
		}
		if at.BareFuncall {
			flags = append(flags, "bare_funcall")
		}
		fmt.Printf("%-8s %-20q %s\n", at.Type, at.Text, strings.Join(flags, ","))
	}
	return nil
}
