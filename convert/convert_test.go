package convert

import (
	"strings"
	"testing"

	"github.com/confmill/confmill/markup"
)

func mdFrom(t *testing.T, cfg Config, raw string) string {
	t.Helper()
	tree, err := markup.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	markup.Preprocess(tree)
	md, err := New(cfg).Markdown(tree)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	return md
}

func TestMarkdownFixedStyle(t *testing.T) {
	md := mdFrom(t, Config{}, "<h2>Section</h2><p><strong>bold</strong> and <em>soft</em></p><ul><li>item</li></ul>")

	if !strings.Contains(md, "## Section") {
		t.Errorf("expected ATX heading, got %q", md)
	}
	if !strings.Contains(md, "**bold**") {
		t.Errorf("expected asterisk strong, got %q", md)
	}
	if !strings.Contains(md, "*soft*") {
		t.Errorf("expected asterisk emphasis, got %q", md)
	}
	if !strings.Contains(md, "- item") {
		t.Errorf("expected dash bullet, got %q", md)
	}
}

func TestMarkdownPseudoListCell(t *testing.T) {
	// WHAT: the end-to-end pseudo-list path: a cell authored as
	// "- one<br>- two" must reach the Markdown table as a real list,
	// not as text with break artifacts.
	raw := "<table><tr><th>Col</th></tr><tr><td>- one<br>- two</td></tr></table>"
	md := mdFrom(t, Config{}, raw)

	var row string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "|") && strings.Contains(line, "one") {
			row = line
			break
		}
	}
	if row == "" {
		t.Fatalf("expected a table row with the list items, got %q", md)
	}
	iOne := strings.Index(row, "- one")
	iTwo := strings.Index(row, "- two")
	if iOne < 0 || iTwo < 0 || iTwo < iOne {
		t.Errorf("expected both bullet items in order inside the row, got %q", row)
	}
	if !strings.Contains(row[iOne:iTwo], "<br />") {
		t.Errorf("expected a line break between the items, got %q", row)
	}
	// Outside the cell nothing may leak: the original <br> tag must not
	// survive as prose text anywhere in the document.
	if strings.Contains(md, "<br>") {
		t.Errorf("raw break tag leaked into the output: %q", md)
	}
}

func TestMarkdownOrderedListCellNumbered(t *testing.T) {
	raw := "<table><tr><th>Steps</th></tr><tr><td><ol><li>fetch</li><li>convert</li></ol></td></tr></table>"
	md := mdFrom(t, Config{}, raw)

	var row string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "|") && strings.Contains(line, "fetch") {
			row = line
			break
		}
	}
	if row == "" {
		t.Fatalf("expected a table row with the steps, got %q", md)
	}
	if !strings.Contains(row, "1. fetch") || !strings.Contains(row, "2. convert") {
		t.Errorf("expected numbered items in the row, got %q", row)
	}
}

func TestMarkdownListOutsideTableUnchanged(t *testing.T) {
	// Lists outside cells keep the standard block rendering.
	md := mdFrom(t, Config{}, "<ul><li>alpha</li><li>beta</li></ul>")

	if !strings.Contains(md, "- alpha") || !strings.Contains(md, "- beta") {
		t.Errorf("expected dash bullets, got %q", md)
	}
	if strings.Contains(md, "<br />") {
		t.Errorf("free-standing list must not carry cell breaks, got %q", md)
	}
}

func TestMarkdownUnresolvedMacroNotFatal(t *testing.T) {
	raw := `<p>before</p><ac:image><ri:attachment ri:filename="gone.png"></ri:attachment></ac:image><p>after</p>`
	md := mdFrom(t, Config{}, raw)

	if !strings.Contains(md, "before") || !strings.Contains(md, "after") {
		t.Errorf("surrounding content must survive an unknown macro, got %q", md)
	}
}

func TestMarkdownCodeBlockNoLanguage(t *testing.T) {
	md := mdFrom(t, Config{}, "<pre><code>fmt.Println(1)</code></pre>")

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") && len(trimmed) > 3 {
			t.Errorf("fence should carry no language tag, got %q", line)
		}
	}
}

func TestMarkdownSanitizeStripsScript(t *testing.T) {
	md := mdFrom(t, Config{SanitizeHTML: true}, "<p>kept</p><script>alert(1)</script>")

	if !strings.Contains(md, "kept") {
		t.Errorf("content lost: %q", md)
	}
	if strings.Contains(md, "alert(1)") {
		t.Errorf("script should be stripped, got %q", md)
	}
}
