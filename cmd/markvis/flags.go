package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	logLevel string
	quiet    bool
	verbose  bool
}

// exportFlags holds PDF layout flags.
type exportFlags struct {
	scale   float64
	quality int
	margin  float64
	timeout string
	workers int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug details")
}

// addExportFlags adds PDF layout flags to a FlagSet. Zero values keep the
// configured layout.
func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.Float64Var(&f.scale, "scale", 0, "rasterization scale (2-4)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality (1-100)")
	fs.Float64Var(&f.margin, "margin", -1, "page margin in millimetres (0-50)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser pool size (0 = auto)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

type serveFlags struct {
	common commonFlags
	export exportFlags
	addr   string
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

type renderFlags struct {
	common commonFlags
	format string
	output string
	style  string
}

func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)
	fs.StringVarP(&f.format, "format", "f", "html", "output format: html, surface, json")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	addCommonFlags(fs, &f.common)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

type exportCmdFlags struct {
	common commonFlags
	export exportFlags
	format string
	output string
	name   string
	style  string
}

func parseExportFlags(args []string, w io.Writer) (*exportCmdFlags, []string, error) {
	f := &exportCmdFlags{}
	fs := newFlagSet("export", w, printExportUsage)
	fs.StringVarP(&f.format, "format", "f", "pdf", "artifact format: pdf, doc")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.name, "name", "n", "", "document name (default: input file name)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

type improveFlags struct {
	common      commonFlags
	instruction string
	model       string
	output      string
	inPlace     bool
}

func parseImproveFlags(args []string, w io.Writer) (*improveFlags, []string, error) {
	f := &improveFlags{}
	fs := newFlagSet("improve", w, printImproveUsage)
	fs.StringVarP(&f.instruction, "instruction", "i", "", "what to change (default: fix formatting and grammar)")
	fs.StringVarP(&f.model, "model", "m", "", "hosted model name")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&f.inPlace, "in-place", false, "overwrite the input file")
	addCommonFlags(fs, &f.common)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

type previewFlags struct {
	common commonFlags
	style  string
	width  int
}

func parsePreviewFlags(args []string, w io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", w, printPreviewUsage)
	fs.StringVar(&f.style, "style", "", "glamour style: dark, light, notty, dracula")
	fs.IntVar(&f.width, "width", 80, "wrap width in columns")
	addCommonFlags(fs, &f.common)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

type editFlags struct {
	common      commonFlags
	instruction string
	style       string
}

func parseEditFlags(args []string, w io.Writer) (*editFlags, []string, error) {
	f := &editFlags{}
	fs := newFlagSet("edit", w, printEditUsage)
	fs.StringVarP(&f.instruction, "instruction", "i", "", "instruction used by ctrl+e")
	fs.StringVar(&f.style, "style", "", "glamour style for the preview pane")
	addCommonFlags(fs, &f.common)
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}
