// Package markup owns the parsed wiki-markup tree for one document.
//
// The tree is parsed once, repaired in place (NormalizeLineBreaks,
// NormalizeCellLists), rewritten (RewriteAttachments), then rendered back to
// HTML for the Markdown converter. Each document gets its own tree; nothing
// here is shared across documents.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a mutable tree from raw storage-format markup.
// Platform macro elements (ac:image, ri:attachment) survive as ordinary
// element nodes with their prefixed names intact.
func Parse(raw string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	return doc, nil
}

// Render serializes the tree back to HTML.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("markup: render: %w", err)
	}
	return buf.String(), nil
}

// innerHTML serializes the children of n, not n itself.
func innerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// collect returns all element nodes in the subtree matching pred,
// in document order. Collecting before mutating keeps the walk safe.
func collect(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// findElement returns the first element named tag in the subtree, or nil.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// removeChildren detaches every child of n.
func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}
