// Package convert renders a repaired markup tree as Markdown.
//
// The conversion configuration is fixed: ATX headings, "-" bullets, "*" as
// the emphasis character (so strong is "**"), and no language tag on fenced
// code blocks. Malformed or unknown nodes degrade to their nearest textual
// form; a single bad node never fails the document.
package convert

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/confmill/confmill/markup"
)

// cellListTag is the element name lists inside table cells are renamed to
// before rendering. The table plugin refuses to build a table around a ul
// or ol node, so the rename hides the list from that check and a dedicated
// renderer emits the items as newline-separated bullet lines instead. With
// NewlineBehaviorPreserve those newlines come out as <br /> inside the cell.
const cellListTag = "cell-list"

// Config configures a Converter.
type Config struct {
	// SanitizeHTML strips scripts, styles and event handlers from the
	// rendered markup before conversion. Useful when exporting view-format
	// bodies that may embed raw HTML macros; storage-format exports can
	// leave it off since unresolved platform macros would be stripped too.
	SanitizeHTML bool
}

// Converter turns a markup tree into Markdown text.
type Converter struct {
	conv     *converter.Converter
	sanitize *bluemonday.Policy
}

// New creates a Converter with the fixed conversion configuration.
func New(cfg Config) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithStrongDelimiter("**"),
					commonmark.WithEmDelimiter("*"),
					commonmark.WithBulletListMarker("-"),
				),
				table.NewTablePlugin(
					table.WithNewlineBehavior(table.NewlineBehaviorPreserve),
				),
			),
		),
	}
	c.conv.Register.PreRenderer(renameCellLists, converter.PriorityEarly)
	c.conv.Register.RendererFor(cellListTag, converter.TagTypeBlock, renderCellList, converter.PriorityStandard)
	if cfg.SanitizeHTML {
		p := bluemonday.UGCPolicy()
		p.AllowTables()
		p.AllowImages()
		c.sanitize = p
	}
	return c
}

// Markdown renders the tree and converts it to Markdown text.
func (c *Converter) Markdown(tree *html.Node) (string, error) {
	rendered, err := markup.Render(tree)
	if err != nil {
		return "", err
	}
	if c.sanitize != nil {
		rendered = c.sanitize.Sanitize(rendered)
	}
	md, err := c.conv.ConvertString(rendered)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return md, nil
}

// renameCellLists rewrites every ul/ol inside a table cell to a cellListTag
// element. It runs in the pre-render phase, before the table plugin inspects
// the table subtree.
func renameCellLists(_ converter.Context, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol") && insideCell(n) {
			if n.Data == "ol" {
				n.Attr = append(n.Attr, html.Attribute{Key: "ordered", Val: "1"})
			}
			n.Data = cellListTag
			n.DataAtom = 0
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
}

func insideCell(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "td" || p.Data == "th") {
			return true
		}
	}
	return false
}

// renderCellList writes one "- item" (or "N. item" for ordered lists) line
// per li. The bullet prefixes are written directly so the escaping pass
// leaves them alone; the table plugin later folds the newlines into <br />.
func renderCellList(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	ordered := false
	for _, a := range n.Attr {
		if a.Key == "ordered" {
			ordered = true
		}
	}
	w.WriteString("\n\n")
	item := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		if item > 0 {
			w.WriteString("\n")
		}
		item++
		if ordered {
			fmt.Fprintf(w, "%d. ", item)
		} else {
			w.WriteString("- ")
		}
		ctx.RenderChildNodes(ctx, w, li)
	}
	w.WriteString("\n\n")
	return converter.RenderSuccess
}
