package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the live editor and HTTP API")
	fmt.Fprintln(w, "  render     Render markdown to styled HTML")
	fmt.Fprintln(w, "  export     Export markdown as PDF or Word-compatible document")
	fmt.Fprintln(w, "  improve    Rewrite markdown with the hosted model")
	fmt.Fprintln(w, "  preview    Print markdown styled for the terminal")
	fmt.Fprintln(w, "  edit       Open the terminal editor")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'markvis help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log debug details")
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "PDF layout:")
	fmt.Fprintln(w, "      --scale <f>           Rasterization scale (2-4)")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality (1-100)")
	fmt.Fprintln(w, "      --margin <f>          Page margin in millimetres (0-50)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Browser pool size (0 = auto)")
	fmt.Fprintln(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor page and the JSON API until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w)
	printLayoutUsage(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markdown file (or - for stdin) to styled HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -f, --format <s>          html (fragment), surface (full page), json (tree)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export a markdown file as an A4 PDF or a Word-compatible .doc.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -f, --format <s>          pdf or doc")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -n, --name <s>            Document name (default: input file name)")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w)
	printLayoutUsage(w)
	printCommonUsage(w)
}

// printImproveUsage prints usage for the improve command.
func printImproveUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis improve <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Send markdown to the hosted model and print the improved text.")
	fmt.Fprintln(w, "The credential is read from GEMINI_API_KEY (or API_KEY).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Model:")
	fmt.Fprintln(w, "  -i, --instruction <s>     What to change (default: fix formatting and grammar)")
	fmt.Fprintln(w, "  -m, --model <s>           Hosted model name")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --in-place            Overwrite the input file")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis preview <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print markdown styled for the terminal.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "      --style <s>           Style: dark, light, notty, dracula")
	fmt.Fprintln(w, "      --width <n>           Wrap width in columns")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printEditUsage prints usage for the edit command.
func printEditUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markvis edit [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open the terminal editor. A missing file starts from the welcome document")
	fmt.Fprintln(w, "and is created on save.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keys:")
	fmt.Fprintln(w, "  ctrl+p    Cycle WRITE / PREVIEW / SPLIT")
	fmt.Fprintln(w, "  ctrl+e    Improve with the hosted model")
	fmt.Fprintln(w, "  ctrl+s    Save")
	fmt.Fprintln(w, "  ctrl+x    Clear")
	fmt.Fprintln(w, "  ctrl+c    Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Editor:")
	fmt.Fprintln(w, "  -i, --instruction <s>     Instruction used by ctrl+e")
	fmt.Fprintln(w, "      --style <s>           Preview style: dark, light, notty, dracula")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "improve":
		printImproveUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "edit":
		printEditUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: markvis doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, the model credential, and the system.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: markvis version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: markvis help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
