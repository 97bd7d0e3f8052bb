package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Platform macro element names as the HTML parser lowercases them.
const (
	imageMacroTag     = "ac:image"
	attachmentRefTag  = "ri:attachment"
	attachmentRefAttr = "ri:filename"
)

// RewriteAttachments replaces every embedded-image macro whose attachment
// reference resolves through the map with a plain <img> pointing at the
// locally stored copy under ./attachments/<pageID>/. References with no map
// entry (failed download, stale name) are left alone; the converter renders
// them as whatever it can.
func RewriteAttachments(root *html.Node, pageID string, attachments map[string]string) {
	for _, macro := range collect(root, func(n *html.Node) bool {
		return n.Data == imageMacroTag
	}) {
		ref := findElement(macro, attachmentRefTag)
		if ref == nil {
			continue
		}
		original := attrVal(ref, attachmentRefAttr)
		if original == "" {
			continue
		}
		local, ok := attachments[original]
		if !ok {
			continue
		}
		img := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Img,
			Data:     "img",
			Attr: []html.Attribute{
				{Key: "src", Val: "./attachments/" + pageID + "/" + local},
			},
		}
		macro.Parent.InsertBefore(img, macro)
		macro.Parent.RemoveChild(macro)
	}
}
