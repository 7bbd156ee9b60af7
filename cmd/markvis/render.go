package main

import (
	"encoding/json"
	"fmt"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/fileutil"
)

// Render output formats.
const (
	formatHTML    = "html"
	formatSurface = "surface"
	formatJSON    = "json"
)

// runRender renders one markdown input and writes the result.
func runRender(args []string, env *Environment) error {
	f, rest, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch f.format {
	case formatHTML, formatSurface, formatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q (use html, surface, json)", ErrUsage, f.format)
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

	css, err := a.stylesheet(f.style)
	if err != nil {
		return err
	}
	source, err := readSource(input, env.Stdin)
	if err != nil {
		return err
	}

	tree := markvis.NewRenderer(a.rendererOptions(css, sourceDir(input))...).Render(source)

	var out []byte
	switch f.format {
	case formatHTML:
		out = []byte(tree.HTML)
	case formatSurface:
		out = []byte(tree.Surface(documentName(input, a.cfg.Document.DefaultName)))
	case formatJSON:
		if out, err = json.MarshalIndent(tree, "", "  "); err != nil {
			return fmt.Errorf("encoding tree: %w", err)
		}
		out = append(out, '\n')
	}
	return writeOutput(f.output, out, env.Stdout)
}

// documentName names the document after its input file, or fallback for
// stdin.
func documentName(input, fallback string) string {
	if input == stdinArg {
		return fallback
	}
	return fileutil.NameFromPath(input)
}
