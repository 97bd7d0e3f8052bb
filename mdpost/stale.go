package mdpost

import (
	"regexp"
	"strings"
)

// tocArtifact is the flattened remnant the converter leaves behind when a
// TOC macro survives into the body. Matched literally.
const tocArtifact = "61falseTable of Contentsnonelisttrue"

var staleTOCHeading = regexp.MustCompile(`(?i)^#{1,6} table of contents$`)

// RemoveStaleSections drops content that a previous export generated or
// that authors never meant to publish:
//   - an existing "Table of Contents" heading and the bullet run under it
//     (lines starting with "*" or "  *"; the first other line ends the run),
//   - any line whose trimmed text starts with "work in progress"
//     (case-insensitive author annotation),
//   - the literal TOC macro artifact.
//
// Nothing else is altered.
func RemoveStaleSections(md string) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	inTOC := false

	for _, line := range lines {
		if inTOC {
			if !strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "  *") {
				inTOC = false
			}
		}
		if inTOC {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if staleTOCHeading.MatchString(trimmed) {
			inTOC = true
			continue
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "work in progress") {
			continue
		}
		if trimmed == tocArtifact {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
