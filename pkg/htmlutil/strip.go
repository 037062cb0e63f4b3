package htmlutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// multipleSpacesPattern matches multiple consecutive whitespace characters.
var multipleSpacesPattern = regexp.MustCompile(`[ \t\r\f\v]{2,}`)

// blockElements break the text onto a new line.
var blockElements = map[atom.Atom]bool{
	atom.Blockquote: true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Tr:         true,
	atom.Ul:         true,
}

// droppedElements have their contents removed along with the tags.
var droppedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// StripTags turns an HTML fragment into plain text. Block-level elements
// become line breaks, entities are decoded and whitespace is collapsed.
// Text that merely contains a "<" (like "I <3 this") passes through intact.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		tok := z.Token()
		switch tt {
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(tok.Data)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if droppedElements[tok.DataAtom] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[tok.DataAtom] {
				b.WriteString("\n")
			} else if tok.DataAtom == atom.Img {
				b.WriteString(" ")
			}
		case html.EndTagToken:
			if droppedElements[tok.DataAtom] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tok.DataAtom] {
				b.WriteString("\n")
			}
		}
	}

	result := strings.ReplaceAll(b.String(), "\u00a0", " ")

	lines := strings.Split(result, "\n")
	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	return strings.Join(nonEmpty, "\n")
}
