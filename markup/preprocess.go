package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	brTag        = regexp.MustCompile(`(?i)<br\s*/?>`)
	bulletPrefix = regexp.MustCompile(`^[*\-•]\s*`)
)

// Preprocess repairs the two structural defect classes the platform emits:
// line breaks that hide line boundaries from text-level processing, and
// lists authored as bullet-prefixed plain text inside table cells.
// The tree is mutated in place.
func Preprocess(root *html.Node) {
	NormalizeLineBreaks(root)
	NormalizeCellLists(root)
}

// NormalizeLineBreaks inserts a "\n" text node after every <br>, so that
// splitting rendered markup on line boundaries sees the breaks the tree
// does not otherwise expose.
func NormalizeLineBreaks(root *html.Node) {
	for _, br := range collect(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Br
	}) {
		nl := &html.Node{Type: html.TextNode, Data: "\n"}
		br.Parent.InsertBefore(nl, br.NextSibling)
	}
}

// NormalizeCellLists rewrites pseudo-lists inside table cells into genuine
// <ul>/<li> structure. A cell qualifies when its raw inner markup starts
// with a bullet glyph (*, -, •) or contains a <br>. Its content is then
// treated as a flat <br>-delimited sequence: each line carrying a bullet
// glyph becomes one list item; everything else in the cell is discarded.
// Cells matching neither condition pass through untouched.
func NormalizeCellLists(root *html.Node) {
	cells := collect(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Td || n.DataAtom == atom.Th
	})
	for _, cell := range cells {
		raw, err := innerHTML(cell)
		if err != nil {
			continue
		}
		if !cellHasPseudoList(raw) {
			continue
		}
		var items []string
		for _, line := range brTag.Split(raw, -1) {
			line = strings.TrimSpace(line)
			if startsWithBullet(line) {
				items = append(items, bulletPrefix.ReplaceAllString(line, ""))
			}
		}
		if len(items) == 0 {
			continue
		}
		ul := &html.Node{Type: html.ElementNode, DataAtom: atom.Ul, Data: "ul"}
		for _, item := range items {
			li := &html.Node{Type: html.ElementNode, DataAtom: atom.Li, Data: "li"}
			li.AppendChild(&html.Node{Type: html.TextNode, Data: item})
			ul.AppendChild(li)
		}
		removeChildren(cell)
		cell.AppendChild(ul)
	}
}

func cellHasPseudoList(raw string) bool {
	return startsWithBullet(strings.TrimSpace(raw)) || strings.Contains(raw, "<br")
}

func startsWithBullet(s string) bool {
	return strings.HasPrefix(s, "*") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "•")
}
