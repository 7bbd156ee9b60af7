package pipeline

import (
	"regexp"
	"strings"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocessor prepares raw editor text for parsing.
type Preprocessor struct{}

// Preprocess repairs invalid UTF-8 and normalizes line endings. Runs of
// blank lines are left alone: between blocks the parser ignores them, and
// inside code blocks they are content.
func (p *Preprocessor) Preprocess(content string) string {
	content = strings.ToValidUTF8(content, "�")
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
