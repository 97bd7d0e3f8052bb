// Package mdpost fixes up converted Markdown with line-oriented passes and
// derives the table of contents from the final heading structure.
//
// The passes treat the document as lines, not as a re-parsed tree. Two of
// them track table membership with deliberately different detectors:
// realignment requires a line to start AND end with a pipe, spacing only
// requires it to start with one. The mismatch is inherited behavior; do not
// unify it, output would change for edge-case inputs.
package mdpost

import "strings"

// tableScanState is the two-state machine shared by the table passes.
type tableScanState int

const (
	outsideTable tableScanState = iota
	insideTable
)

// Process runs the three passes in their required order: column
// realignment, table/prose spacing, then stale-section removal.
func Process(md string) string {
	md = RealignTables(md)
	md = NormalizeTableSpacing(md)
	md = RemoveStaleSections(md)
	return md
}

// RealignTables rewrites every table row as "| cell | cell |" with single
// spaces around each pipe and no boundary-pipe empty cells. Table mode
// starts at a line that both starts and ends with "|" and ends only at a
// blank line; a stray non-table line in between is normalized as if it
// were a row.
func RealignTables(md string) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	state := outsideTable

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|"):
			state = insideTable
		case state == insideTable && trimmed == "":
			state = outsideTable
		}

		if state == insideTable {
			out = append(out, realignRow(line))
		} else {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// realignRow splits a row on pipes, trims each cell, and drops the empty
// boundary cells the row's own leading/trailing pipes produce.
func realignRow(line string) string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	for len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

// NormalizeTableSpacing guarantees one blank line between a table block and
// adjacent non-blank prose, inserting before the first table line and after
// the last. A table line here is any line whose trimmed form starts with
// "|" — broader than the realignment detector on purpose.
func NormalizeTableSpacing(md string) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	state := outsideTable

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") {
			if state == outsideTable && len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
			out = append(out, line)
			state = insideTable
		} else {
			if state == insideTable && trimmed != "" {
				out = append(out, "")
			}
			out = append(out, line)
			state = outsideTable
		}
	}
	return strings.Join(out, "\n")
}
