package markvis

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis/internal/assets"
	"github.com/alnah/go-markvis/internal/pipeline"
)

// PlaceholderMarkdown is rendered in place of an empty document.
const PlaceholderMarkdown = "_Start typing in the editor..._"

// RenderedTree is the result of one render. It is never mutated after
// Render returns.
type RenderedTree struct {
	Root        *Node  `json:"tree"`
	HTML        string `json:"html"`
	Placeholder bool   `json:"placeholder"`

	stylesheet string
}

// Surface materializes the tree as a standalone HTML document, the input
// of both exporters.
func (t *RenderedTree) Surface(title string) string {
	return pipeline.WrapDocument(title, t.HTML, t.stylesheet)
}

// Renderer turns markdown into a RenderedTree. It is safe for concurrent use.
type Renderer struct {
	builder    *pipeline.TreeBuilder
	serializer *pipeline.HTMLSerializer
	stylesheet string
	baseDir    string
	logger     *zap.Logger
}

// NewRenderer creates a Renderer. Without WithStylesheet the embedded
// preview stylesheet is used.
func NewRenderer(opts ...Option) *Renderer {
	s := newSettings(opts)

	css := s.stylesheet
	if css == "" {
		// The embedded default is compiled in; a load failure leaves the
		// surface unstyled but still renders.
		css, _ = assets.LoadStyle(assets.DefaultStyleName)
	}

	return &Renderer{
		builder:    pipeline.NewTreeBuilder(),
		serializer: pipeline.NewHTMLSerializer(pipeline.NewHighlighter(s.codeTheme)),
		stylesheet: css,
		baseDir:    s.baseDir,
		logger:     s.logger,
	}
}

// Render parses source and returns the styled tree and its HTML fragment.
// It never fails: whitespace-only input renders the placeholder and an
// internal failure falls back to showing the source as preformatted text.
func (r *Renderer) Render(source string) (tree *RenderedTree) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render failed, showing source as text", zap.Any("panic", rec))
			tree = r.fallback(source)
		}
	}()

	placeholder := strings.TrimSpace(source) == ""
	if placeholder {
		source = PlaceholderMarkdown
	}

	root := r.builder.Build(source)
	if err := pipeline.RewriteRelativePaths(root, r.baseDir); err != nil {
		r.logger.Warn("relative paths left unresolved", zap.String("base_dir", r.baseDir), zap.Error(err))
	}

	return &RenderedTree{
		Root:        root,
		HTML:        r.serializer.Serialize(root),
		Placeholder: placeholder,
		stylesheet:  r.stylesheet,
	}
}

// fallback renders source as a single code block without going through the
// parser.
func (r *Renderer) fallback(source string) *RenderedTree {
	block := &Node{
		Kind:  pipeline.KindCodeBlock,
		Text:  source,
		Style: pipeline.StyleFor(pipeline.KindCodeBlock, 0),
	}
	root := &Node{
		Kind:     pipeline.KindDocument,
		Style:    pipeline.StyleFor(pipeline.KindDocument, 0),
		Children: []*Node{block},
	}
	fragment := fmt.Sprintf(`<div style="%s"><pre style="%s"><code>%s</code></pre></div>`,
		html.EscapeString(string(root.Style)), html.EscapeString(string(block.Style)), html.EscapeString(source))

	return &RenderedTree{Root: root, HTML: fragment, stylesheet: r.stylesheet}
}
