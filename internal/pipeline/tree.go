package pipeline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Node is one element of the rendered tree. Attribute fields are only set
// for the kinds that use them.
type Node struct {
	Kind     Kind    `json:"kind"`
	Level    int     `json:"level,omitempty"`
	ID       string  `json:"id,omitempty"`
	Text     string  `json:"text,omitempty"`
	Href     string  `json:"href,omitempty"`
	Src      string  `json:"src,omitempty"`
	Alt      string  `json:"alt,omitempty"`
	Title    string  `json:"title,omitempty"`
	Language string  `json:"language,omitempty"`
	Checked  bool    `json:"checked,omitempty"`
	Align    string  `json:"align,omitempty"`
	Start    int     `json:"start,omitempty"`
	Style    Style   `json:"style,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Walk calls fn for n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TreeBuilder parses markdown and folds the result into a Node tree.
// A TreeBuilder is safe for concurrent use.
type TreeBuilder struct {
	md  goldmark.Markdown
	pre *Preprocessor
}

// NewTreeBuilder creates a TreeBuilder with the GFM extensions (tables,
// strikethrough, autolinks, task lists) and automatic heading IDs.
func NewTreeBuilder() *TreeBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &TreeBuilder{md: md, pre: &Preprocessor{}}
}

// Build parses source and returns the styled document tree.
// The parser is lenient: every input yields a tree.
func (t *TreeBuilder) Build(source string) *Node {
	src := []byte(t.pre.Preprocess(source))
	doc := t.md.Parser().Parse(text.NewReader(src))

	b := &builder{source: src}
	root := &Node{Kind: KindDocument, Children: b.children(doc)}
	applyStyles(root)
	return root
}

// applyStyles stamps every node with its style map entry.
func applyStyles(n *Node) {
	n.Walk(func(n *Node) {
		n.Style = StyleFor(n.Kind, n.Level)
	})
}

type builder struct {
	source []byte
}

func (b *builder) children(parent ast.Node) []*Node {
	var out []*Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		for _, n := range b.convert(c) {
			out = appendMerged(out, n)
		}
	}
	return out
}

// appendMerged joins adjacent text nodes so the tree does not depend on
// how the parser segmented a run of text.
func appendMerged(out []*Node, n *Node) []*Node {
	if n.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
		out[len(out)-1].Text += n.Text
		return out
	}
	return append(out, n)
}

func (b *builder) convert(n ast.Node) []*Node {
	switch v := n.(type) {
	case *ast.Heading:
		node := &Node{Kind: KindHeading, Level: v.Level, Children: b.children(v)}
		if id, ok := v.AttributeString("id"); ok {
			if bs, ok := id.([]byte); ok {
				node.ID = string(bs)
			}
		}
		return []*Node{node}
	case *ast.Paragraph:
		return b.wrap(KindParagraph, v)
	case *ast.TextBlock:
		return b.children(v)
	case *ast.Text:
		out := []*Node{{Kind: KindText, Text: string(v.Segment.Value(b.source))}}
		switch {
		case v.HardLineBreak():
			out = append(out, &Node{Kind: KindLineBreak})
		case v.SoftLineBreak():
			out = append(out, &Node{Kind: KindText, Text: "\n"})
		}
		return out
	case *ast.String:
		return []*Node{{Kind: KindText, Text: string(v.Value)}}
	case *ast.Emphasis:
		if v.Level >= 2 {
			return b.wrap(KindStrong, v)
		}
		return b.wrap(KindEmphasis, v)
	case *ast.List:
		if v.IsOrdered() {
			return []*Node{{Kind: KindOrderedList, Start: v.Start, Children: b.children(v)}}
		}
		return b.wrap(KindList, v)
	case *ast.ListItem:
		return []*Node{b.listItem(v)}
	case *east.TaskCheckBox:
		return []*Node{{Kind: KindCheckbox, Checked: v.IsChecked}}
	case *ast.Blockquote:
		return b.wrap(KindBlockquote, v)
	case *ast.CodeSpan:
		return []*Node{{Kind: KindCodeSpan, Text: b.plainText(v)}}
	case *ast.FencedCodeBlock:
		return []*Node{{
			Kind:     KindCodeBlock,
			Language: string(v.Language(b.source)),
			Text:     b.lines(v.Lines()),
		}}
	case *ast.CodeBlock:
		return []*Node{{Kind: KindCodeBlock, Text: b.lines(v.Lines())}}
	case *ast.Link:
		return []*Node{{
			Kind:     KindLink,
			Href:     string(v.Destination),
			Title:    string(v.Title),
			Children: b.children(v),
		}}
	case *ast.AutoLink:
		href := string(v.URL(b.source))
		if v.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		label := &Node{Kind: KindText, Text: string(v.Label(b.source))}
		return []*Node{{Kind: KindLink, Href: href, Children: []*Node{label}}}
	case *ast.Image:
		return []*Node{{
			Kind:  KindImage,
			Src:   string(v.Destination),
			Title: string(v.Title),
			Alt:   b.plainText(v),
		}}
	case *ast.ThematicBreak:
		return []*Node{{Kind: KindThematicBreak}}
	case *ast.HTMLBlock:
		raw := b.lines(v.Lines())
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(b.source))
		}
		return []*Node{{Kind: KindRawHTML, Text: raw}}
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(b.source))
		}
		return []*Node{{Kind: KindRawHTML, Text: buf.String()}}
	case *east.Strikethrough:
		return b.wrap(KindStrikethrough, v)
	case *east.Table:
		return []*Node{b.table(v)}
	default:
		return b.children(n)
	}
}

func (b *builder) wrap(kind Kind, n ast.Node) []*Node {
	return []*Node{{Kind: kind, Children: b.children(n)}}
}

// listItem marks items that open with a task checkbox as task list items.
func (b *builder) listItem(item *ast.ListItem) *Node {
	node := &Node{Kind: KindListItem, Children: b.children(item)}
	if first := item.FirstChild(); first != nil {
		if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			node.Kind = KindTaskListItem
			node.Checked = cb.IsChecked
		}
	}
	return node
}

func (b *builder) table(t *east.Table) *Node {
	node := &Node{Kind: KindTable}
	var body *Node
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			head := &Node{Kind: KindTableHead}
			head.Children = []*Node{b.row(row, KindTableHeaderCell)}
			node.Children = append(node.Children, head)
		case *east.TableRow:
			if body == nil {
				body = &Node{Kind: KindTableBody}
				node.Children = append(node.Children, body)
			}
			body.Children = append(body.Children, b.row(row, KindTableCell))
		}
	}
	return node
}

func (b *builder) row(row ast.Node, cellKind Kind) *Node {
	node := &Node{Kind: KindTableRow}
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell := &Node{Kind: cellKind, Children: b.children(c)}
		if tc, ok := c.(*east.TableCell); ok {
			cell.Align = alignment(tc.Alignment)
		}
		node.Children = append(node.Children, cell)
	}
	return node
}

func alignment(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return "left"
	case east.AlignRight:
		return "right"
	case east.AlignCenter:
		return "center"
	default:
		return ""
	}
}

func (b *builder) lines(lines *text.Segments) string {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(b.source))
	}
	return buf.String()
}

// plainText concatenates the literal text below n, used for code spans and
// image alt text.
func (b *builder) plainText(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(b.source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
