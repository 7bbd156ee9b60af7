package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis/internal/editor"
	"github.com/alnah/go-markvis/internal/fileutil"
	"github.com/alnah/go-markvis/internal/tui"
)

// runEdit opens the terminal editor on a file. A missing file starts from
// the welcome document and is created on first save.
func runEdit(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseEditFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return usageError(errUnexpectedArgs(rest[1:]))
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	defer a.close()

	state := editor.DefaultState()
	state.DocumentName = a.cfg.Document.DefaultName

	path := fileutil.SanitizeName(state.DocumentName) + ".md"
	if len(rest) == 1 {
		path = rest[0]
		state.DocumentName = fileutil.NameFromPath(path)
	}

	source, err := readSource(path, env.Stdin)
	switch {
	case err == nil:
		state.Source = source
	case errors.Is(err, os.ErrNotExist):
		a.logger.Debug("starting new document", zap.String("path", path))
	default:
		return err
	}

	instruction := f.instruction
	if instruction == "" {
		instruction = a.cfg.Enhancement.Instruction
	}

	return tui.Run(ctx, editor.NewSession(state), tui.Options{
		Improver:     a.newEnhancer(),
		Instruction:  instruction,
		PreviewStyle: f.style,
		Save: func(source string) error {
			return writeOutput(path, []byte(source), env.Stdout)
		},
	})
}
