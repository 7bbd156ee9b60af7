package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis"
)

// Export artifact formats.
const (
	formatPDF = "pdf"
	formatDoc = "doc"
)

// runExport renders one markdown input and writes a PDF or .doc artifact.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if f.format != formatPDF && f.format != formatDoc {
		return fmt.Errorf("%w: unknown format %q (use pdf, doc)", ErrUsage, f.format)
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

	if err := a.applyExportFlags(f.export); err != nil {
		return err
	}
	css, err := a.stylesheet(f.style)
	if err != nil {
		return err
	}
	source, err := readSource(input, env.Stdin)
	if err != nil {
		return err
	}

	name := f.name
	if name == "" {
		name = documentName(input, a.cfg.Document.DefaultName)
	}

	tree := markvis.NewRenderer(a.rendererOptions(css, sourceDir(input))...).Render(source)
	surface := tree.Surface(name)

	exporter := markvis.NewExporter(a.exporterOptions(nil)...)
	defer func() {
		if err := exporter.Close(); err != nil {
			a.logger.Warn("closing browser", zap.Error(err))
		}
	}()

	var artifact *markvis.Artifact
	if f.format == formatDoc {
		artifact = exporter.ExportDoc(surface, name)
	} else if artifact, err = exporter.ExportPDF(ctx, surface, name); err != nil {
		return err
	}

	path := resolveOutputPath(f.output, artifact.Filename)
	if err := writeOutput(path, artifact.Data, env.Stdout); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s (%d bytes)\n", path, len(artifact.Data))
	}
	return nil
}

// resolveOutputPath returns where an artifact is written: the artifact's own
// filename in the working directory, inside output when it is a directory
// (or ends with a separator), or output itself.
func resolveOutputPath(output, filename string) string {
	if output == "" {
		return filename
	}
	if last := output[len(output)-1]; last == '/' || last == filepath.Separator {
		return filepath.Join(output, filename)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filename)
	}
	return output
}
