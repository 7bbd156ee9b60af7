package pipeline

import (
	"html"
	"strconv"
	"strings"
)

// HTMLSerializer turns a Node tree into an HTML fragment. Every element
// carries its style directive inline.
type HTMLSerializer struct {
	hl *Highlighter
}

// NewHTMLSerializer creates a serializer that colors code blocks with hl.
// A nil hl uses the default code theme.
func NewHTMLSerializer(hl *Highlighter) *HTMLSerializer {
	if hl == nil {
		hl = NewHighlighter(DefaultCodeTheme)
	}
	return &HTMLSerializer{hl: hl}
}

// Serialize renders root to HTML. Identical trees produce identical bytes.
func (s *HTMLSerializer) Serialize(root *Node) string {
	var sb strings.Builder
	s.write(&sb, root)
	return sb.String()
}

func (s *HTMLSerializer) write(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText:
		sb.WriteString(html.EscapeString(n.Text))
	case KindRawHTML:
		// Raw HTML is shown, never interpreted.
		sb.WriteString(html.EscapeString(n.Text))
	case KindLineBreak:
		sb.WriteString("<br>\n")
	case KindCheckbox:
		sb.WriteString(`<input type="checkbox" disabled`)
		if n.Checked {
			sb.WriteString(" checked")
		}
		writeStyle(sb, n.Style)
		sb.WriteString(">")
	case KindCodeSpan:
		sb.WriteString("<code")
		writeStyle(sb, n.Style)
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(n.Text))
		sb.WriteString("</code>")
	case KindCodeBlock:
		sb.WriteString("<pre")
		writeStyle(sb, n.Style)
		sb.WriteString("><code")
		if n.Language != "" {
			writeAttr(sb, "class", "language-"+n.Language)
		}
		sb.WriteString(">")
		sb.WriteString(s.hl.Highlight(n.Text, n.Language))
		sb.WriteString("</code></pre>\n")
	case KindImage:
		sb.WriteString("<img")
		writeAttr(sb, "src", safeURL(n.Src, true))
		writeAttr(sb, "alt", n.Alt)
		if n.Title != "" {
			writeAttr(sb, "title", n.Title)
		}
		writeStyle(sb, n.Style)
		sb.WriteString(">")
	case KindThematicBreak:
		sb.WriteString("<hr")
		writeStyle(sb, n.Style)
		sb.WriteString(">\n")
	default:
		s.writeElement(sb, n)
	}
}

func (s *HTMLSerializer) writeElement(sb *strings.Builder, n *Node) {
	tag := tagFor(n.Kind, n.Level)
	if tag == "" {
		s.writeChildren(sb, n)
		return
	}

	sb.WriteString("<" + tag)
	switch n.Kind {
	case KindHeading:
		if n.ID != "" {
			writeAttr(sb, "id", n.ID)
		}
	case KindOrderedList:
		if n.Start != 1 {
			writeAttr(sb, "start", strconv.Itoa(n.Start))
		}
	case KindTableHeaderCell, KindTableCell:
		if n.Align != "" {
			writeAttr(sb, "align", n.Align)
		}
	case KindLink:
		writeAttr(sb, "href", safeURL(n.Href, false))
		if n.Title != "" {
			writeAttr(sb, "title", n.Title)
		}
	}
	writeStyle(sb, n.Style)
	sb.WriteString(">")

	s.writeChildren(sb, n)

	sb.WriteString("</" + tag + ">")
	if isBlock(n.Kind) {
		sb.WriteString("\n")
	}
}

func (s *HTMLSerializer) writeChildren(sb *strings.Builder, n *Node) {
	for _, c := range n.Children {
		s.write(sb, c)
	}
}

func isBlock(k Kind) bool {
	switch k {
	case KindText, KindEmphasis, KindStrong, KindStrikethrough, KindCodeSpan,
		KindLink, KindImage, KindLineBreak, KindRawHTML, KindCheckbox:
		return false
	default:
		return true
	}
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}

func writeStyle(sb *strings.Builder, style Style) {
	if style == "" {
		return
	}
	writeAttr(sb, "style", string(style))
}

// safeURL drops destinations with script-capable schemes. Data URLs are
// kept only for images. The scheme is checked the way browsers read it,
// with ASCII control characters and spaces removed.
func safeURL(dest string, image bool) string {
	scheme := strings.ToLower(strings.Map(dropControl, dest))
	switch {
	case strings.HasPrefix(scheme, "javascript:"),
		strings.HasPrefix(scheme, "vbscript:"):
		return ""
	case strings.HasPrefix(scheme, "data:"):
		if image && strings.HasPrefix(scheme, "data:image/") && !strings.HasPrefix(scheme, "data:image/svg") {
			return dest
		}
		return ""
	}
	return dest
}

func dropControl(r rune) rune {
	if r <= ' ' || r == 0x7f {
		return -1
	}
	return r
}
