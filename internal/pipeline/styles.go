package pipeline

import "fmt"

// Kind identifies the type of a rendered node. The set is closed: every
// node the tree builder emits has one of the kinds below.
type Kind string

const (
	KindDocument        Kind = "document"
	KindHeading         Kind = "heading"
	KindParagraph       Kind = "paragraph"
	KindText            Kind = "text"
	KindEmphasis        Kind = "emphasis"
	KindStrong          Kind = "strong"
	KindStrikethrough   Kind = "strikethrough"
	KindList            Kind = "list"
	KindOrderedList     Kind = "ordered_list"
	KindListItem        Kind = "list_item"
	KindTaskListItem    Kind = "task_list_item"
	KindCheckbox        Kind = "checkbox"
	KindBlockquote      Kind = "blockquote"
	KindCodeSpan        Kind = "code_span"
	KindCodeBlock       Kind = "code_block"
	KindTable           Kind = "table"
	KindTableHead       Kind = "table_head"
	KindTableBody       Kind = "table_body"
	KindTableRow        Kind = "table_row"
	KindTableHeaderCell Kind = "table_header_cell"
	KindTableCell       Kind = "table_cell"
	KindLink            Kind = "link"
	KindImage           Kind = "image"
	KindThematicBreak   Kind = "thematic_break"
	KindLineBreak       Kind = "line_break"
	KindRawHTML         Kind = "raw_html"
)

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindDocument, KindHeading, KindParagraph, KindText, KindEmphasis,
		KindStrong, KindStrikethrough, KindList, KindOrderedList, KindListItem,
		KindTaskListItem, KindCheckbox, KindBlockquote, KindCodeSpan,
		KindCodeBlock, KindTable, KindTableHead, KindTableBody, KindTableRow,
		KindTableHeaderCell, KindTableCell, KindLink, KindImage,
		KindThematicBreak, KindLineBreak, KindRawHTML,
	}
}

// Style is a set of inline CSS declarations applied to a rendered element.
type Style string

// DefaultInlineStyle applies to inline kinds with no dedicated entry.
// Such elements inherit everything from their block container.
const DefaultInlineStyle Style = ""

const monoFont = "ui-monospace,SFMono-Regular,Menlo,Consolas,monospace"

// Heading styles. Levels 4 to 6 share headingDefault.
const (
	heading1 Style = "font-size:1.875rem;line-height:2.25rem;font-weight:600;color:#0f172a;" +
		"border-bottom:1px solid #e2e8f0;padding-bottom:0.5rem;margin:0.5rem 0 1.5rem"
	heading2 Style = "font-size:1.5rem;line-height:2rem;font-weight:600;color:#1e293b;" +
		"margin:2rem 0 1rem"
	heading3 Style = "font-size:1.25rem;line-height:1.75rem;font-weight:500;color:#1e293b;" +
		"margin:1.5rem 0 0.75rem"
	headingDefault Style = "font-size:1rem;font-weight:600;color:#1e293b;margin:1.25rem 0 0.5rem"
)

// blockStyles holds the non-heading entries of the style map. Inline kinds
// that inherit from their container are listed with DefaultInlineStyle so
// the table stays exhaustive.
var blockStyles = map[Kind]Style{
	KindDocument:      "font-family:Inter,Helvetica,Arial,sans-serif;color:#334155;font-size:1rem",
	KindParagraph:     "margin:0 0 1rem;line-height:1.625;color:#334155",
	KindText:          DefaultInlineStyle,
	KindEmphasis:      DefaultInlineStyle,
	KindStrong:        "font-weight:600;color:#0f172a",
	KindStrikethrough: DefaultInlineStyle,
	KindList:          "list-style-type:disc;list-style-position:outside;margin:0 0 1rem 1.5rem;padding:0",
	KindOrderedList:   "list-style-type:decimal;list-style-position:outside;margin:0 0 1rem 1.5rem;padding:0",
	KindListItem:      "padding-left:0.25rem;margin:0.25rem 0",
	KindTaskListItem:  "list-style-type:none;margin:0.25rem 0 0.25rem -1.25rem",
	KindCheckbox:      "margin:0 0.5rem 0 0;width:1rem;height:1rem;vertical-align:middle;accent-color:#4f46e5",
	KindBlockquote: "border-left:4px solid #6366f1;padding:0.5rem 0 0.5rem 1rem;margin:1.5rem 0;" +
		"font-style:italic;color:#475569;background:#f8fafc;border-radius:0 0.25rem 0.25rem 0",
	KindCodeSpan: "background:#f1f5f9;color:#db2777;padding:0.125rem 0.375rem;border-radius:0.25rem;" +
		"font-size:0.875rem;font-family:" + monoFont + ";border:1px solid #e2e8f0",
	KindCodeBlock: "display:block;background:#0f172a;color:#f8fafc;padding:1rem;border-radius:0.5rem;" +
		"overflow-x:auto;font-family:" + monoFont + ";font-size:0.875rem;line-height:1.5;" +
		"margin:1rem 0;white-space:pre",
	KindTable:           "min-width:100%;border-collapse:collapse;border:1px solid #e2e8f0;margin:1.5rem 0",
	KindTableHead:       "background:#f8fafc",
	KindTableBody:       "background:#ffffff",
	KindTableRow:        "border-top:1px solid #e2e8f0",
	KindTableHeaderCell: "padding:0.75rem 1.5rem;text-align:left;font-size:0.75rem;font-weight:500;color:#64748b;text-transform:uppercase;letter-spacing:0.05em",
	KindTableCell:       "padding:1rem 1.5rem;white-space:nowrap;font-size:0.875rem;color:#475569",
	KindLink:            "color:#4f46e5;text-decoration:underline",
	KindImage:           "display:block;max-width:100%;height:auto;margin:1.5rem auto;border-radius:0.5rem",
	KindThematicBreak:   "margin:2rem 0;border:0;border-top:1px solid #e2e8f0",
	KindLineBreak:       DefaultInlineStyle,
	KindRawHTML:         DefaultInlineStyle,
}

// StyleFor returns the style directive for a node kind. level is only
// consulted for headings. An unknown kind resolves to DefaultInlineStyle.
func StyleFor(kind Kind, level int) Style {
	if kind == KindHeading {
		switch level {
		case 1:
			return heading1
		case 2:
			return heading2
		case 3:
			return heading3
		default:
			return headingDefault
		}
	}
	if s, ok := blockStyles[kind]; ok {
		return s
	}
	return DefaultInlineStyle
}

// tagFor maps a kind to its HTML element name.
func tagFor(kind Kind, level int) string {
	switch kind {
	case KindHeading:
		return fmt.Sprintf("h%d", clampLevel(level))
	case KindParagraph:
		return "p"
	case KindEmphasis:
		return "em"
	case KindStrong:
		return "strong"
	case KindStrikethrough:
		return "del"
	case KindList:
		return "ul"
	case KindOrderedList:
		return "ol"
	case KindListItem, KindTaskListItem:
		return "li"
	case KindBlockquote:
		return "blockquote"
	case KindCodeSpan:
		return "code"
	case KindCodeBlock:
		return "pre"
	case KindTable:
		return "table"
	case KindTableHead:
		return "thead"
	case KindTableBody:
		return "tbody"
	case KindTableRow:
		return "tr"
	case KindTableHeaderCell:
		return "th"
	case KindTableCell:
		return "td"
	case KindLink:
		return "a"
	case KindDocument:
		return "div"
	default:
		return ""
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
