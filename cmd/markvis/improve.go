package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-markvis"
)

// runImprove sends one markdown input to the hosted model and writes the
// improved text.
func runImprove(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseImproveFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := singleInput(rest)
	if err != nil {
		return err
	}
	if f.inPlace && input == stdinArg {
		return fmt.Errorf("%w: --in-place needs a file input", ErrUsage)
	}
	if f.inPlace && f.output != "" {
		return fmt.Errorf("%w: --in-place and --output are mutually exclusive", ErrUsage)
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	defer a.close()

	if f.model != "" {
		a.cfg.Enhancement.Model = f.model
	}
	instruction := f.instruction
	if instruction == "" {
		instruction = a.cfg.Enhancement.Instruction
	}

	source, err := readSource(input, env.Stdin)
	if err != nil {
		return err
	}

	improved, err := a.newEnhancer().Improve(ctx, source, instruction)
	if err != nil {
		return a.enhanceError(err)
	}

	output := f.output
	if f.inPlace {
		output = input
	}
	if err := writeOutput(output, []byte(improved), env.Stdout); err != nil {
		return err
	}

	if !f.common.quiet {
		if c := markvis.Summarize(source, improved); c.Unchanged {
			fmt.Fprintln(env.Stderr, "changes: none")
		} else {
			fmt.Fprintf(env.Stderr, "changes: +%d -%d characters\n", c.Inserted, c.Deleted)
		}
	}
	return nil
}
