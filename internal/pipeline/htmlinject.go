package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// surfaceTemplate wraps a rendered fragment in a complete HTML5 document.
const surfaceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<main class="markvis-page">
%s</main>
</body>
</html>`

// officeTemplate is the envelope word processors accept as a .doc file.
const officeTemplate = "<html xmlns:o='urn:schemas-microsoft-com:office:office' " +
	"xmlns:w='urn:schemas-microsoft-com:office:word' " +
	"xmlns='http://www.w3.org/TR/REC-html40'>" +
	"<head><meta charset='utf-8'><title>%s</title></head><body>%s</body></html>"

// WrapDocument builds the browser surface for a fragment, styled with css.
func WrapDocument(title, fragment, css string) string {
	doc := fmt.Sprintf(surfaceTemplate, html.EscapeString(title), fragment)
	return InjectCSS(doc, css)
}

// WrapOfficeDocument builds the word-processor envelope around a fragment.
func WrapOfficeDocument(title, fragment string) string {
	return fmt.Sprintf(officeTemplate, html.EscapeString(title), fragment)
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ExtractBody returns the content between <body ...> and </body>, or the
// whole input when it has no body element.
func ExtractBody(document string) string {
	lower := strings.ToLower(document)
	start := strings.Index(lower, "<body")
	if start == -1 {
		return document
	}
	open := strings.Index(lower[start:], ">")
	if open == -1 {
		return document
	}
	start += open + 1
	end := strings.LastIndex(lower, "</body>")
	if end < start {
		return document[start:]
	}
	return document[start:end]
}

// ExtractTitle returns the text of the first <title> element, unescaped.
func ExtractTitle(document string) string {
	lower := strings.ToLower(document)
	start := strings.Index(lower, "<title>")
	if start == -1 {
		return ""
	}
	start += len("<title>")
	end := strings.Index(lower[start:], "</title>")
	if end == -1 {
		return ""
	}
	return html.UnescapeString(document[start : start+end])
}
