package main

import (
	"github.com/alnah/go-markvis/internal/tui"
)

// runPreview prints one markdown input styled for the terminal.
func runPreview(args []string, env *Environment) error {
	f, rest, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := singleInput(rest)
	if err != nil {
		return err
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	defer a.close()

	source, err := readSource(input, env.Stdin)
	if err != nil {
		return err
	}

	out, err := tui.RenderMarkdown(source, f.width, f.style)
	if err != nil {
		return err
	}
	return writeOutput("", []byte(out), env.Stdout)
}
