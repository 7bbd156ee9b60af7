// Package markvis renders markdown to a styled preview and exports it as a
// paginated PDF or a word-processor document, with optional cleanup of the
// source by a hosted generative model.
//
// # Quick Start
//
// Render markdown and export the result:
//
//	r := markvis.NewRenderer()
//	tree := r.Render("# Hello\n\nWorld")
//
//	exp := markvis.NewExporter()
//	defer exp.Close()
//
//	pdf, err := exp.ExportPDF(ctx, tree.Surface("notes"), "notes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(pdf.Filename, pdf.Data, 0644)
//
//	doc := exp.ExportDoc(tree.Surface("notes"), "notes")
//
// # Rendering
//
// Render never fails. Empty input renders a placeholder document, every
// node of the resulting tree carries an inline style taken from a fixed
// style map, and identical input always produces identical output.
//
// # Export
//
// ExportPDF loads the surface in headless Chrome, captures a full-page JPEG
// at twice the CSS resolution and slices it onto A4 pages with 10 mm
// margins. The PDF is a picture of the preview: text is not selectable.
//
// ExportDoc wraps the rendered fragment in the HTML envelope word
// processors open as .doc files. It is a visual proxy with no native
// document styles.
//
// # Improvement
//
// Enhancer sends the source and an instruction to a Gemini model and
// returns the replacement text. It needs a credential at construction:
//
//	enh := markvis.NewEnhancer(markvis.EnhancerConfig{APIKey: key})
//	improved, err := enh.Improve(ctx, source, markvis.DefaultInstruction)
//
// # Parallel Processing
//
// For servers, use RasterizerPool so concurrent exports get their own
// browser:
//
//	pool := markvis.NewRasterizerPool(markvis.ResolvePoolSize(0))
//	exp := markvis.NewExporter(markvis.WithRasterizer(pool))
//	defer exp.Close()
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package markvis
