package mdpost

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headingLine = regexp.MustCompile(`^(#{1,6}) (.*)`)
	slugStrip   = regexp.MustCompile(`[^\p{L}\p{N}_\- ]`)
)

// Slug derives the anchor for a heading title: characters outside
// word/hyphen/space are stripped, the rest lowercased, spaces become
// hyphens. Identical titles produce identical slugs; nothing here
// disambiguates them.
func Slug(title string) string {
	s := slugStrip.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "-")
}

// GenerateTOC builds a nested bullet list of links from the document's
// heading lines, indented two spaces per level beyond the first. A heading
// literally titled "Table of Contents" is skipped so the generated list
// never references itself.
func GenerateTOC(md string) string {
	var entries []string
	for _, line := range strings.Split(md, "\n") {
		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		title := strings.TrimSpace(m[2])
		if strings.EqualFold(title, "Table of Contents") {
			continue
		}
		indent := strings.Repeat("  ", level-1)
		entries = append(entries, fmt.Sprintf("%s* [%s](#%s)", indent, title, Slug(title)))
	}
	return strings.Join(entries, "\n")
}
