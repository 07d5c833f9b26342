// Package mailtext turns raw inbound notification bodies (HTML mail, forwarded
// SMS) into the cleaned plain text the template parser consumes.
package mailtext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankRuns = regexp.MustCompile(`((\s+)?(\r)?\n(\s+)?)+`)

// Collapse squeezes runs of blank lines and surrounding whitespace into a
// single newline so line-anchored template rules see one physical line per
// logical line.
func Collapse(text string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n"))
}

// ToText extracts the visible text of an HTML document. Script and style
// content is dropped; when a <body> element exists only its subtree is kept.
// Non-HTML input falls through mostly unchanged since bare text parses as
// character data.
func ToText(src string) string {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}

	if body := findElement(root, atom.Body); body != nil {
		root = body
	}

	var sb strings.Builder

	collectText(root, &sb)

	return sb.String()
}

// Clean is the full pipeline: HTML to text, then blank-line collapsing.
func Clean(src string) string {
	return Collapse(ToText(src))
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}

	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br, atom.P, atom.Div, atom.Tr, atom.Li:
			sb.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
